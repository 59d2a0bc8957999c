package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"bijou/internal/authz"
	"bijou/internal/metrics"
	"bijou/internal/models"
	"bijou/internal/repositories"
	"bijou/internal/utils"
)

var (
	ErrNoPendingSignup  = errors.New("no pending signup for session")
	ErrCodeExpired      = errors.New("verification code expired")
	ErrCodeInvalid      = errors.New("verification code invalid")
	ErrTooManyAttempts  = errors.New("too many verification attempts")
	ErrNotVerified      = errors.New("email not verified yet")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrPhoneTaken       = errors.New("phone already registered")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTermsNotAgreed   = errors.New("terms must be agreed")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPhone     = errors.New("invalid mobile number")
	ErrInvalidBirthDate = errors.New("invalid birth date")
	ErrWeakPassword     = errors.New("password must be at least 8 chars and contain a letter and a digit")
	ErrBreachedPassword = errors.New("password found in breach corpus")
	ErrAutoLoginFailed  = errors.New("account created, automatic login failed")
)

const (
	codeTTL           = 5 * time.Minute
	maxVerifyAttempts = 5
	minPasswordLength = 8
)

// BreachChecker — проверка пароля по корпусу утечек (k-anonymity).
type BreachChecker interface {
	IsBreached(password string) (bool, error)
}

// SignupService ведёт трёхшаговую регистрацию: send-code -> verify-code -> complete.
// Промежуточное состояние живёт в Redis по ключу сессии, аккаунт создаётся
// только на последнем шаге.
type SignupService struct {
	Store    repositories.SignupStore
	Accounts repositories.AccountRepository
	Emails   EmailService
	Auth     AuthService
	Pwned    BreachChecker // nil => проверка выключена
	Metrics  *metrics.Collector

	// Подменяются в тестах.
	CodeReader io.Reader
	Now        func() time.Time
}

func NewSignupService(
	store repositories.SignupStore,
	accounts repositories.AccountRepository,
	emails EmailService,
	auth AuthService,
	pwned BreachChecker,
	collector *metrics.Collector,
) *SignupService {
	return &SignupService{
		Store:      store,
		Accounts:   accounts,
		Emails:     emails,
		Auth:       auth,
		Pwned:      pwned,
		Metrics:    collector,
		CodeReader: rand.Reader,
		Now:        time.Now,
	}
}

// RequestCode валидирует анкету, шлёт шестизначный код на почту и сохраняет
// pending-запись. Если письмо не ушло — запись чистим и возвращаем ошибку:
// у клиента не должно остаться сессии с кодом, который он не получит.
func (s *SignupService) RequestCode(ctx context.Context, sessionID string, req *models.SignupRequest) error {
	profile, err := s.validate(req)
	if err != nil {
		return err
	}

	code, err := s.generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	sum := sha256.Sum256([]byte(code))

	pending := &models.PendingSignup{
		Profile:   *profile,
		CodeHash:  hex.EncodeToString(sum[:]),
		ExpiresAt: s.Now().Add(codeTTL),
	}
	if err := s.Store.Save(ctx, sessionID, pending); err != nil {
		return err
	}

	if err := s.Emails.SendVerificationCode(profile.Email, code); err != nil {
		log.Printf("[signup][send-code] email dispatch failed email=%s err=%v", profile.Email, err)
		if s.Metrics != nil {
			s.Metrics.RecordEmailSendFailure()
		}
		_ = s.Store.Clear(ctx, sessionID)
		return fmt.Errorf("send verification email: %w", err)
	}

	if s.Metrics != nil {
		s.Metrics.RecordSignupCodeSent()
	}
	log.Printf("[signup][send-code] code sent email=%s username=%s", profile.Email, profile.Username)
	return nil
}

// VerifyCode сверяет код с хэшем. Read-modify-write по одной сессии
// сериализуется, чтобы конкурентные попытки не потеряли инкремент tries.
func (s *SignupService) VerifyCode(ctx context.Context, sessionID, code string) error {
	return s.Store.WithLock(sessionID, func() error {
		pending, err := s.Store.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if pending == nil {
			s.recordVerify("absent")
			return ErrNoPendingSignup
		}
		if s.Now().After(pending.ExpiresAt) {
			s.recordVerify("expired")
			_ = s.Store.Clear(ctx, sessionID)
			return ErrCodeExpired
		}
		// Повторный verify уже подтверждённой сессии — идемпотентный успех.
		if pending.Verified {
			s.recordVerify("success")
			return nil
		}
		// Лимит проверяется до сверки: пятая неверная попытка ещё получает
		// "неверный код", удаляет запись только следующая.
		if pending.Tries >= maxVerifyAttempts {
			s.recordVerify("limit")
			_ = s.Store.Clear(ctx, sessionID)
			return ErrTooManyAttempts
		}

		sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
		if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(pending.CodeHash)) != 1 {
			pending.Tries++
			if err := s.Store.Save(ctx, sessionID, pending); err != nil {
				return err
			}
			s.recordVerify("mismatch")
			return ErrCodeInvalid
		}

		pending.Verified = true
		if err := s.Store.Save(ctx, sessionID, pending); err != nil {
			return err
		}
		s.recordVerify("success")
		log.Printf("[signup][verify-code] OK email=%s", pending.Profile.Email)
		return nil
	})
}

// SignupResult — созданный аккаунт и токены его первой сессии.
type SignupResult struct {
	Account      *models.Account `json:"account"`
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
}

// Complete создаёт аккаунт из подтверждённой pending-записи, чистит её и
// сразу логинит нового пользователя. Уникальность перепроверяем: между
// send-code и complete мог зарегистрироваться кто-то с тем же
// username/телефоном.
func (s *SignupService) Complete(ctx context.Context, sessionID string) (*SignupResult, error) {
	pending, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrNoPendingSignup
	}
	if !pending.Verified {
		return nil, ErrNotVerified
	}

	p := pending.Profile
	if taken, err := s.Accounts.ExistsByUsername(p.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.Accounts.ExistsByPhone(p.Phone); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}

	birth, err := time.Parse("2006-01-02", p.BirthDate)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}

	hash, err := s.Auth.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Username:     p.Username,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		BirthDate:    birth,
		Address:      p.Address,
		PasswordHash: hash,
		Role:         authz.RoleMember,
	}
	if err := s.Accounts.Create(account); err != nil {
		return nil, err
	}
	_ = s.Store.Clear(ctx, sessionID)

	if s.Emails != nil {
		if err := s.Emails.SendWelcomeEmail(account.Email, account.Name); err != nil {
			log.Printf("[signup][complete] warning: welcome email failed email=%s err=%v", account.Email, err)
		}
	}

	log.Printf("[signup][complete] account created id=%d username=%s", account.ID, account.Username)

	// Сразу аутентифицируем свежие учётные данные. Несовпадение здесь —
	// аномалия: аккаунт создан, пусть пользователь логинится вручную.
	stored, err := s.Accounts.GetByUsername(account.Username)
	if err != nil || stored == nil || !s.Auth.CheckPassword(stored.PasswordHash, p.Password) {
		log.Printf("[signup][complete] auto-login failed username=%s err=%v", account.Username, err)
		return &SignupResult{Account: account}, ErrAutoLoginFailed
	}
	access, err := s.Auth.IssueAccessToken(stored.ID, stored.Role)
	if err != nil {
		return &SignupResult{Account: account}, ErrAutoLoginFailed
	}
	refresh, err := utils.NewRefreshToken(32)
	if err != nil {
		return &SignupResult{Account: account}, ErrAutoLoginFailed
	}
	if err := s.Accounts.UpdateRefresh(stored.ID, refresh, s.Now().Add(refreshTokenTTL)); err != nil {
		log.Printf("[signup][complete] store refresh failed userID=%d err=%v", stored.ID, err)
		return &SignupResult{Account: account}, ErrAutoLoginFailed
	}

	return &SignupResult{Account: account, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *SignupService) validate(req *models.SignupRequest) (*models.SignupProfile, error) {
	if !req.TermsAgreed {
		return nil, ErrTermsNotAgreed
	}
	if req.Password1 != req.Password2 {
		return nil, ErrPasswordMismatch
	}
	if !passwordOK(req.Password1) {
		return nil, ErrWeakPassword
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidMobile(phone) {
		return nil, ErrInvalidPhone
	}

	if _, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate)); err != nil {
		return nil, ErrInvalidBirthDate
	}

	username := strings.TrimSpace(req.Username)
	if taken, err := s.Accounts.ExistsByUsername(username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.Accounts.ExistsByPhone(phone); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}

	if s.Pwned != nil {
		breached, err := s.Pwned.IsBreached(req.Password1)
		if err != nil {
			// сервис недоступен => пропускаем проверку, не блокируем регистрацию
			log.Printf("[signup][pwned] check unavailable, skipping: %v", err)
		} else if breached {
			return nil, ErrBreachedPassword
		}
	}

	return &models.SignupProfile{
		Username:  username,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Phone:     phone,
		BirthDate: strings.TrimSpace(req.BirthDate),
		Address:   strings.TrimSpace(req.Address),
		Password:  req.Password1,
	}, nil
}

func passwordOK(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func (s *SignupService) generateCode() (string, error) {
	// Хвост диапазона uint32 отбрасываем: остаток от деления смещал бы
	// выборку к кодам ниже 967296.
	const bound = 1<<32 - (1<<32)%1000000
	for {
		var buf [4]byte
		if _, err := io.ReadFull(s.CodeReader, buf[:]); err != nil {
			return "", err
		}
		n := binary.BigEndian.Uint32(buf[:])
		if uint64(n) >= bound {
			continue
		}
		return fmt.Sprintf("%06d", n%1000000), nil
	}
}

func (s *SignupService) recordVerify(outcome string) {
	if s.Metrics != nil {
		s.Metrics.RecordSignupVerify(outcome)
	}
}
