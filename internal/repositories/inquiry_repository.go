package repositories

import (
	"database/sql"
	"time"

	"bijou/internal/models"
)

type InquiryRepository interface {
	Create(iq *models.Inquiry) error
	GetByID(id int) (*models.Inquiry, error)
	ListByUser(userID, limit, offset int) ([]*models.Inquiry, error)
	ListByStatus(status string, limit, offset int) ([]*models.Inquiry, error)
	MarkAnswered(id, staffID int, at time.Time) error
	Close(id int) error

	AddMessage(m *models.InquiryMessage) error
	ListMessages(inquiryID int) ([]*models.InquiryMessage, error)
}

type inquiryRepository struct {
	DB *sql.DB
}

func NewInquiryRepository(db *sql.DB) InquiryRepository {
	return &inquiryRepository{DB: db}
}

const inquiryColumns = `
	id, user_id, email, product_id, product_option_id, category, title, question,
	status, is_public, answered_by, answered_at, created_at, updated_at
`

func (r *inquiryRepository) Create(iq *models.Inquiry) error {
	const q = `
		INSERT INTO inquiries (user_id, email, product_id, product_option_id, category, title, question, is_public)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, status, created_at, updated_at
	`
	nullable := func(p *int) any {
		if p == nil {
			return nil
		}
		return *p
	}
	return r.DB.QueryRow(q,
		nullable(iq.UserID), iq.Email, nullable(iq.ProductID), nullable(iq.ProductOptionID),
		iq.Category, iq.Title, iq.Question, iq.IsPublic,
	).Scan(&iq.ID, &iq.Status, &iq.CreatedAt, &iq.UpdatedAt)
}

func scanInquiry(s interface {
	Scan(dest ...any) error
}) (*models.Inquiry, error) {
	iq := &models.Inquiry{}
	var (
		userID, productID, optionID, answeredBy sql.NullInt64
		answeredAt                              sql.NullTime
	)
	err := s.Scan(
		&iq.ID, &userID, &iq.Email, &productID, &optionID, &iq.Category, &iq.Title, &iq.Question,
		&iq.Status, &iq.IsPublic, &answeredBy, &answeredAt, &iq.CreatedAt, &iq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	setInt := func(dst **int, src sql.NullInt64) {
		if src.Valid {
			v := int(src.Int64)
			*dst = &v
		}
	}
	setInt(&iq.UserID, userID)
	setInt(&iq.ProductID, productID)
	setInt(&iq.ProductOptionID, optionID)
	setInt(&iq.AnsweredBy, answeredBy)
	if answeredAt.Valid {
		t := answeredAt.Time
		iq.AnsweredAt = &t
	}
	return iq, nil
}

func (r *inquiryRepository) GetByID(id int) (*models.Inquiry, error) {
	const q = `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`
	iq, err := scanInquiry(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	iq.Messages, err = r.ListMessages(iq.ID)
	return iq, err
}

func (r *inquiryRepository) queryInquiries(q string, args ...any) ([]*models.Inquiry, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Inquiry
	for rows.Next() {
		iq, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iq)
	}
	return out, rows.Err()
}

func (r *inquiryRepository) ListByUser(userID, limit, offset int) ([]*models.Inquiry, error) {
	const q = `
		SELECT ` + inquiryColumns + `
		FROM inquiries WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryInquiries(q, userID, limit, offset)
}

func (r *inquiryRepository) ListByStatus(status string, limit, offset int) ([]*models.Inquiry, error) {
	const q = `
		SELECT ` + inquiryColumns + `
		FROM inquiries WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryInquiries(q, status, limit, offset)
}

func (r *inquiryRepository) MarkAnswered(id, staffID int, at time.Time) error {
	const q = `
		UPDATE inquiries
		SET status = 'ANSWERED', answered_by = $2, answered_at = $3, updated_at = now()
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, id, staffID, at)
	return err
}

func (r *inquiryRepository) Close(id int) error {
	_, err := r.DB.Exec(`UPDATE inquiries SET status = 'CLOSED', updated_at = now() WHERE id = $1`, id)
	return err
}

func (r *inquiryRepository) AddMessage(m *models.InquiryMessage) error {
	const q = `
		INSERT INTO inquiry_messages (inquiry_id, author_id, is_staff_reply, message)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`
	var authorID any
	if m.AuthorID != nil {
		authorID = *m.AuthorID
	}
	return r.DB.QueryRow(q, m.InquiryID, authorID, m.IsStaffReply, m.Message).Scan(&m.ID, &m.CreatedAt)
}

func (r *inquiryRepository) ListMessages(inquiryID int) ([]*models.InquiryMessage, error) {
	const q = `
		SELECT id, inquiry_id, author_id, is_staff_reply, message, created_at
		FROM inquiry_messages
		WHERE inquiry_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.Query(q, inquiryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.InquiryMessage
	for rows.Next() {
		m := &models.InquiryMessage{}
		var authorID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.InquiryID, &authorID, &m.IsStaffReply, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		if authorID.Valid {
			v := int(authorID.Int64)
			m.AuthorID = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
