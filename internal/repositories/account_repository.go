package repositories

import (
	"database/sql"
	"time"

	"bijou/internal/models"
)

type AccountRepository interface {
	Create(a *models.Account) error
	GetByID(id int) (*models.Account, error)
	GetByUsername(username string) (*models.Account, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByPhone(phone string) (bool, error)
	Update(a *models.Account) error
	Count() (int, error)

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Account, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.Account, error)

	// активные пользователи = живой неотозванный refresh-токен
	CountActiveSessions(now time.Time) (int, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `
	id, username, name, email, phone, birth_date, address, password_hash, role,
	refresh_token, refresh_expires_at, refresh_revoked, created_at, updated_at
`

func (r *accountRepository) Create(a *models.Account) error {
	const q = `
		INSERT INTO accounts (username, name, email, phone, birth_date, address, password_hash, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		a.Username, a.Name, a.Email, a.Phone, a.BirthDate, a.Address, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *accountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var (
		rt  sql.NullString
		rte sql.NullTime
		rr  sql.NullBool
	)
	err := row.Scan(
		&a.ID, &a.Username, &a.Name, &a.Email, &a.Phone, &a.BirthDate, &a.Address,
		&a.PasswordHash, &a.Role, &rt, &rte, &rr, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rt.Valid {
		s := rt.String
		a.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		a.RefreshExpiresAt = &t
	}
	if rr.Valid {
		a.RefreshRevoked = rr.Bool
	}
	return a, nil
}

func (r *accountRepository) GetByID(id int) (*models.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.DB.QueryRow(q, id))
}

func (r *accountRepository) GetByUsername(username string) (*models.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	a, err := r.scanAccount(r.DB.QueryRow(q, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *accountRepository) ExistsByUsername(username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *accountRepository) ExistsByPhone(phone string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM accounts WHERE phone = $1)`, phone).Scan(&exists)
	return exists, err
}

func (r *accountRepository) Update(a *models.Account) error {
	const q = `
		UPDATE accounts
		SET name = $2, email = $3, phone = $4, birth_date = $5, address = $6, role = $7, updated_at = now()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, a.ID, a.Name, a.Email, a.Phone, a.BirthDate, a.Address, a.Role)
	return err
}

func (r *accountRepository) Count() (int, error) {
	var n int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

func (r *accountRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE accounts
		SET refresh_token = $2, refresh_expires_at = $3, refresh_revoked = FALSE, updated_at = now()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, userID, token, expiresAt)
	return err
}

func (r *accountRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.Account, error) {
	const q = `
		UPDATE accounts
		SET refresh_token = $2, refresh_expires_at = $3, refresh_revoked = FALSE, updated_at = now()
		WHERE refresh_token = $1 AND refresh_revoked = FALSE
		RETURNING ` + accountColumns
	a, err := r.scanAccount(r.DB.QueryRow(q, oldToken, newToken, newExpiresAt))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *accountRepository) ClearRefresh(userID int) error {
	const q = `
		UPDATE accounts
		SET refresh_token = NULL, refresh_expires_at = NULL, refresh_revoked = FALSE, updated_at = now()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, userID)
	return err
}

func (r *accountRepository) GetByRefreshToken(token string) (*models.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE refresh_token = $1`
	a, err := r.scanAccount(r.DB.QueryRow(q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (r *accountRepository) CountActiveSessions(now time.Time) (int, error) {
	const q = `
		SELECT COUNT(*) FROM accounts
		WHERE refresh_token IS NOT NULL AND refresh_revoked = FALSE AND refresh_expires_at > $1
	`
	var n int
	err := r.DB.QueryRow(q, now).Scan(&n)
	return n, err
}
