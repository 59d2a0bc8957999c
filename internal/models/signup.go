package models

import "time"

// SignupProfile — все поля регистрации, собранные до подтверждения почты.
// Все поля обязательны; никакого динамического probing по наличию атрибутов.
type SignupProfile struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`      // canonical digit-only form: 01012345678
	BirthDate string `json:"birth_date"` // ISO date, e.g. 2000-01-31
	Address   string `json:"address"`
	Password  string `json:"password"` // plaintext only inside the pending record
}

// PendingSignup — ephemeral per-session record awaiting email verification.
// Хранится в Redis c TTL, в БД не пишется. Сырой код не храним, только хэш.
type PendingSignup struct {
	Profile   SignupProfile `json:"profile"`
	CodeHash  string        `json:"code_hash"` // hex SHA-256 of the 6-digit code
	ExpiresAt time.Time     `json:"expires_at"`
	Tries     int           `json:"tries"`
	Verified  bool          `json:"verified"`
}

type SignupRequest struct {
	Username    string `json:"username" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	BirthDate   string `json:"birth_date" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Password1   string `json:"password1" binding:"required"`
	Password2   string `json:"password2" binding:"required"`
	TermsAgreed bool   `json:"terms_agreed"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}
