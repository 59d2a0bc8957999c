package repositories

import (
	"database/sql"

	"bijou/internal/models"
)

type DeliveryRepository interface {
	Create(d *models.Delivery) error
	GetByID(id int) (*models.Delivery, error)
	ListByUser(userID int) ([]*models.Delivery, error)
	Update(d *models.Delivery) error
	Delete(id, userID int) error
	SetDefault(id, userID int) error
}

type deliveryRepository struct {
	DB *sql.DB
}

func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{DB: db}
}

const deliveryColumns = `
	id, user_id, recipient_name, phone, postcode, address_line1, address_line2,
	is_default, request_note, created_at, updated_at
`

func (r *deliveryRepository) Create(d *models.Delivery) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if d.IsDefault {
		if _, err := tx.Exec(`UPDATE deliveries SET is_default = FALSE WHERE user_id = $1`, d.UserID); err != nil {
			return err
		}
	}
	const q = `
		INSERT INTO deliveries (user_id, recipient_name, phone, postcode, address_line1, address_line2, is_default, request_note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(q,
		d.UserID, d.RecipientName, d.Phone, d.Postcode, d.AddressLine1, d.AddressLine2, d.IsDefault, d.RequestNote,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *deliveryRepository) GetByID(id int) (*models.Delivery, error) {
	const q = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	d := &models.Delivery{}
	err := r.DB.QueryRow(q, id).Scan(
		&d.ID, &d.UserID, &d.RecipientName, &d.Phone, &d.Postcode, &d.AddressLine1, &d.AddressLine2,
		&d.IsDefault, &d.RequestNote, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deliveryRepository) ListByUser(userID int) ([]*models.Delivery, error) {
	const q = `
		SELECT ` + deliveryColumns + `
		FROM deliveries WHERE user_id = $1
		ORDER BY is_default DESC, updated_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Delivery
	for rows.Next() {
		d := &models.Delivery{}
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.RecipientName, &d.Phone, &d.Postcode, &d.AddressLine1, &d.AddressLine2,
			&d.IsDefault, &d.RequestNote, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *deliveryRepository) Update(d *models.Delivery) error {
	const q = `
		UPDATE deliveries
		SET recipient_name = $3, phone = $4, postcode = $5, address_line1 = $6,
		    address_line2 = $7, request_note = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.DB.Exec(q, d.ID, d.UserID, d.RecipientName, d.Phone, d.Postcode, d.AddressLine1, d.AddressLine2, d.RequestNote)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *deliveryRepository) Delete(id, userID int) error {
	res, err := r.DB.Exec(`DELETE FROM deliveries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetDefault снимает флаг со всех адресов пользователя и ставит на выбранный.
func (r *deliveryRepository) SetDefault(id, userID int) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE deliveries SET is_default = FALSE WHERE user_id = $1`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`UPDATE deliveries SET is_default = TRUE, updated_at = now() WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
