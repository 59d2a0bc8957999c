package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bijou/internal/models"
	"bijou/internal/repositories"
	"bijou/internal/services"
	"bijou/internal/utils"
)

type AuthHandler struct {
	Accounts    repositories.AccountRepository
	AuthService services.AuthService
	Carts       *services.CartService
}

func NewAuthHandler(accounts repositories.AccountRepository, authService services.AuthService, carts *services.CartService) *AuthHandler {
	return &AuthHandler{Accounts: accounts, AuthService: authService, Carts: carts}
}

// @Summary      로그인
// @Description  아이디/비밀번호 인증 후 토큰 발급
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "로그인 정보"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := strings.TrimSpace(req.Username)
	log.Printf("[auth][login] attempt username=%q", username)

	account, err := h.Accounts.GetByUsername(username)
	if err != nil || account == nil {
		log.Printf("[auth][login] account not found username=%q err=%v", username, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if !h.AuthService.CheckPassword(account.PasswordHash, strings.TrimSpace(req.Password)) {
		log.Printf("[auth][login] password mismatch userID=%d", account.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	accessToken, err := h.AuthService.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		log.Printf("[auth][login] sign access token failed userID=%d err=%v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	// Refresh (opaque) -> хранится в БД
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}
	rtExp := time.Now().Add(30 * 24 * time.Hour)
	if err := h.Accounts.UpdateRefresh(account.ID, rt, rtExp); err != nil {
		log.Printf("[auth][login] store refresh token failed userID=%d err=%v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
		return
	}

	// Гостевая корзина переезжает к пользователю
	if sessionKey, cErr := c.Cookie(cartSessionCookie); cErr == nil && sessionKey != "" {
		if err := h.Carts.MergeGuestCart(account.ID, sessionKey); err != nil {
			log.Printf("[auth][login] guest cart merge failed userID=%d err=%v", account.ID, err)
		}
	}

	log.Printf("[auth][login] success userID=%d role=%s took=%s",
		account.ID, account.Role, time.Since(start).Truncate(time.Millisecond))

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    account, // PasswordHash помечен json:"-", наружу не уйдет
		"tokens": gin.H{
			"access_token":  accessToken,
			"refresh_token": rt,
		},
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	old := strings.TrimSpace(req.RefreshToken)
	account, err := h.Accounts.GetByRefreshToken(old)
	if err != nil || account == nil || account.RefreshToken == nil || account.RefreshExpiresAt == nil || account.RefreshRevoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if time.Now().After(*account.RefreshExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	// rotate refresh
	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate refresh token"})
		return
	}
	newExp := time.Now().Add(30 * 24 * time.Hour)
	rotated, err := h.Accounts.RotateRefresh(old, newRT, newExp)
	if err != nil || rotated == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	accessToken, err := h.AuthService.IssueAccessToken(rotated.ID, rotated.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": newRT, // возвращаем новый (ротация)
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if err := h.Accounts.ClearRefresh(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	account, err := h.Accounts.GetByID(userID)
	if err != nil || account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, account)
}
