package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bijou/internal/models"
	"bijou/internal/services"
)

type SignupHandler struct {
	Service *services.SignupService
}

func NewSignupHandler(service *services.SignupService) *SignupHandler {
	return &SignupHandler{Service: service}
}

// @Summary      인증 코드 발송
// @Description  가입 정보를 검증하고 이메일로 6자리 인증 코드를 보냅니다
// @Tags         Signup
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "가입 정보"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /signup/send-code [post]
func (h *SignupHandler) SendCode(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := signupSessionID(c)
	if err := h.Service.RequestCode(c.Request.Context(), sid, &req); err != nil {
		status := signupErrStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "인증 코드를 이메일로 보냈습니다"})
}

// @Summary      인증 코드 확인
// @Tags         Signup
// @Accept       json
// @Produce      json
// @Param        code  body      models.VerifyCodeRequest  true  "인증 코드"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      410   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /signup/verify-code [post]
func (h *SignupHandler) VerifyCode(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid := signupSessionID(c)
	if err := h.Service.VerifyCode(c.Request.Context(), sid, req.Code); err != nil {
		c.JSON(signupErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "이메일 인증이 완료되었습니다"})
}

// @Summary      회원가입 완료
// @Tags         Signup
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /signup/complete [post]
func (h *SignupHandler) Complete(c *gin.Context) {
	sid := signupSessionID(c)
	result, err := h.Service.Complete(c.Request.Context(), sid)
	if errors.Is(err, services.ErrAutoLoginFailed) {
		// Аккаунт создан, но сессию установить не удалось
		c.SetCookie(signupSessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusCreated, gin.H{
			"user":    result.Account,
			"message": "가입이 완료되었습니다. 다시 로그인해 주세요",
		})
		return
	}
	if err != nil {
		c.JSON(signupErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.SetCookie(signupSessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusCreated, gin.H{
		"user": result.Account,
		"tokens": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
		},
	})
}

func signupErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrPhoneTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrNoPendingSignup),
		errors.Is(err, services.ErrCodeInvalid),
		errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrTermsNotAgreed),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrInvalidBirthDate),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrBreachedPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
