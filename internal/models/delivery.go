package models

import "time"

// Delivery — адрес доставки из адресной книги пользователя.
type Delivery struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	Postcode      string    `json:"postcode"`
	AddressLine1  string    `json:"address_line1"`
	AddressLine2  string    `json:"address_line2"`
	IsDefault     bool      `json:"is_default"`
	RequestNote   string    `json:"request_note"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
