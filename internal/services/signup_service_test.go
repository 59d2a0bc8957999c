package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"bijou/internal/authz"
	"bijou/internal/models"
	"bijou/internal/repositories"
)

// binary.BigEndian.Uint32([0,1,0xE2,0x40]) % 1e6 == 123456
var fixedCodeBytes = []byte{0x00, 0x01, 0xE2, 0x40}

const fixedCode = "123456"

type fakeAccounts struct {
	accounts       []*models.Account
	createErr      error
	activeSessions int
}

func (f *fakeAccounts) Create(a *models.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = len(f.accounts) + 1
	f.accounts = append(f.accounts, a)
	return nil
}

func (f *fakeAccounts) GetByID(id int) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) GetByUsername(username string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) ExistsByUsername(username string) (bool, error) {
	a, _ := f.GetByUsername(username)
	return a != nil, nil
}

func (f *fakeAccounts) ExistsByPhone(phone string) (bool, error) {
	for _, a := range f.accounts {
		if a.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) Update(*models.Account) error { return nil }
func (f *fakeAccounts) Count() (int, error)          { return len(f.accounts), nil }

func (f *fakeAccounts) UpdateRefresh(int, string, time.Time) error { return nil }
func (f *fakeAccounts) RotateRefresh(string, string, time.Time) (*models.Account, error) {
	return nil, nil
}
func (f *fakeAccounts) ClearRefresh(int) error { return nil }
func (f *fakeAccounts) GetByRefreshToken(string) (*models.Account, error) {
	return nil, nil
}
func (f *fakeAccounts) CountActiveSessions(time.Time) (int, error) {
	return f.activeSessions, nil
}

type fakeEmails struct {
	sentCodes    []string
	sentWelcome  []string
	verifyErr    error
	orderNumbers []string
}

func (f *fakeEmails) SendVerificationCode(email, code string) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.sentCodes = append(f.sentCodes, code)
	return nil
}

func (f *fakeEmails) SendWelcomeEmail(email, name string) error {
	f.sentWelcome = append(f.sentWelcome, email)
	return nil
}

func (f *fakeEmails) SendOrderConfirmation(email, orderNumber string) error {
	f.orderNumbers = append(f.orderNumbers, orderNumber)
	return nil
}

type fakeBreachChecker struct {
	breached bool
	err      error
}

func (f *fakeBreachChecker) IsBreached(string) (bool, error) { return f.breached, f.err }

func validSignupRequest() *models.SignupRequest {
	return &models.SignupRequest{
		Username:    "hong",
		Name:        "홍길동",
		Email:       "hong@example.com",
		Phone:       "+82 10-1234-5678",
		BirthDate:   "1995-04-01",
		Address:     "서울시 마포구",
		Password1:   "s3cret-pass",
		Password2:   "s3cret-pass",
		TermsAgreed: true,
	}
}

func newSignupTest(t *testing.T) (*SignupService, *fakeAccounts, *fakeEmails, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	accounts := &fakeAccounts{}
	emails := &fakeEmails{}
	svc := NewSignupService(
		repositories.NewSignupStore(rdb, 15*time.Minute),
		accounts, emails, NewAuthService(), nil, nil,
	)
	svc.CodeReader = bytes.NewReader(fixedCodeBytes)
	return svc, accounts, emails, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestSignupFlowHappyPath(t *testing.T) {
	svc, accounts, emails, done := newSignupTest(t)
	defer done()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sess-1", validSignupRequest()))
	require.Equal(t, []string{fixedCode}, emails.sentCodes)

	require.NoError(t, svc.VerifyCode(ctx, "sess-1", fixedCode))

	result, err := svc.Complete(ctx, "sess-1")
	require.NoError(t, err)
	account := result.Account
	require.Equal(t, "hong", account.Username)
	require.Equal(t, authz.RoleMember, account.Role)
	require.Equal(t, "01012345678", account.Phone, "phone must be normalized before persisting")
	require.NotEqual(t, "s3cret-pass", account.PasswordHash)
	require.True(t, svc.Auth.CheckPassword(account.PasswordHash, "s3cret-pass"))
	require.Len(t, accounts.accounts, 1)
	require.Equal(t, []string{"hong@example.com"}, emails.sentWelcome)

	// сразу после complete у пользователя должна быть сессия
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	// pending-запись должна быть стёрта
	_, err = svc.Complete(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNoPendingSignup)
}

func TestVerifyCodeMismatchCountsTries(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sess-1", validSignupRequest()))

	// все пять неверных попыток получают "неверный код", каждая лишь
	// увеличивает tries
	for i := 0; i < maxVerifyAttempts; i++ {
		require.ErrorIs(t, svc.VerifyCode(ctx, "sess-1", "000000"), ErrCodeInvalid)
	}
	// шестая попытка упирается в лимит и сжигает сессию — даже с верным кодом
	require.ErrorIs(t, svc.VerifyCode(ctx, "sess-1", fixedCode), ErrTooManyAttempts)
	require.ErrorIs(t, svc.VerifyCode(ctx, "sess-1", fixedCode), ErrNoPendingSignup)
}

func TestGenerateCodeRejectsBiasedTail(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()

	// 0xFFFFFFFF попадает в хвост uint32 и должен быть отброшен,
	// следующее чтение даёт 123456
	svc.CodeReader = bytes.NewReader(append([]byte{0xFF, 0xFF, 0xFF, 0xFF}, fixedCodeBytes...))
	code, err := svc.generateCode()
	require.NoError(t, err)
	require.Equal(t, fixedCode, code)
}

func TestVerifyCodeExpired(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }
	require.NoError(t, svc.RequestCode(ctx, "sess-1", validSignupRequest()))

	svc.Now = func() time.Time { return base.Add(codeTTL + time.Second) }
	require.ErrorIs(t, svc.VerifyCode(ctx, "sess-1", fixedCode), ErrCodeExpired)
	// expired-запись очищена => повтор даёт absent
	require.ErrorIs(t, svc.VerifyCode(ctx, "sess-1", fixedCode), ErrNoPendingSignup)
}

func TestVerifyCodeWithoutRequest(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()
	require.ErrorIs(t, svc.VerifyCode(context.Background(), "ghost", "123456"), ErrNoPendingSignup)
}

func TestVerifyCodeIdempotentAfterSuccess(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sess-1", validSignupRequest()))
	require.NoError(t, svc.VerifyCode(ctx, "sess-1", fixedCode))
	// повторный verify (двойной сабмит формы) — успех, даже с мусорным кодом
	require.NoError(t, svc.VerifyCode(ctx, "sess-1", "junk"))
}

func TestCompleteBeforeVerify(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, "sess-1", validSignupRequest()))
	_, err := svc.Complete(ctx, "sess-1")
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestRequestCodeValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(r *models.SignupRequest)
		wantErr error
	}{
		{"terms not agreed", func(r *models.SignupRequest) { r.TermsAgreed = false }, ErrTermsNotAgreed},
		{"password mismatch", func(r *models.SignupRequest) { r.Password2 = "other-pass" }, ErrPasswordMismatch},
		{"short password", func(r *models.SignupRequest) { r.Password1, r.Password2 = "short", "short" }, ErrWeakPassword},
		{"no digit in password", func(r *models.SignupRequest) { r.Password1, r.Password2 = "lettersonly", "lettersonly" }, ErrWeakPassword},
		{"bad email", func(r *models.SignupRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"bad phone", func(r *models.SignupRequest) { r.Phone = "021234567" }, ErrInvalidPhone},
		{"bad birth date", func(r *models.SignupRequest) { r.BirthDate = "01/04/1995" }, ErrInvalidBirthDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, done := newSignupTest(t)
			defer done()
			req := validSignupRequest()
			tc.mutate(req)
			require.ErrorIs(t, svc.RequestCode(context.Background(), "sess-1", req), tc.wantErr)
		})
	}
}

func TestRequestCodeUsernameTaken(t *testing.T) {
	svc, accounts, _, done := newSignupTest(t)
	defer done()
	accounts.accounts = append(accounts.accounts, &models.Account{ID: 1, Username: "hong", Phone: "01099998888"})

	err := svc.RequestCode(context.Background(), "sess-1", validSignupRequest())
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRequestCodeEmailFailureClearsPending(t *testing.T) {
	svc, _, emails, done := newSignupTest(t)
	defer done()
	ctx := context.Background()

	emails.verifyErr = errors.New("smtp down")
	require.Error(t, svc.RequestCode(ctx, "sess-1", validSignupRequest()))
	// после сбоя отправки у клиента не должно остаться живой сессии
	require.ErrorIs(t, svc.VerifyCode(ctx, "sess-1", fixedCode), ErrNoPendingSignup)
}

func TestBreachedPasswordRejected(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()

	svc.Pwned = &fakeBreachChecker{breached: true}
	err := svc.RequestCode(context.Background(), "sess-1", validSignupRequest())
	require.ErrorIs(t, err, ErrBreachedPassword)
}

func TestBreachCheckFailOpen(t *testing.T) {
	svc, _, _, done := newSignupTest(t)
	defer done()

	// корпус утечек недоступен — регистрацию не блокируем
	svc.Pwned = &fakeBreachChecker{err: errors.New("range api timeout")}
	require.NoError(t, svc.RequestCode(context.Background(), "sess-1", validSignupRequest()))
}
