package models

import "time"

type Review struct {
	ID                 int        `json:"id"`
	UserID             int        `json:"user_id"`
	Username           string     `json:"username,omitempty"`
	ProductID          int        `json:"product_id"`
	ProductOptionID    *int       `json:"product_option_id,omitempty"`
	Rating             int        `json:"rating"` // 1..5
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	IsPublic           bool       `json:"is_public"`
	IsVerifiedPurchase bool       `json:"is_verified_purchase"`
	HelpfulCount       int        `json:"helpful_count"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Категории и статусы обращений (social/Inquiry).
const (
	InquiryProduct  = "PRODUCT"
	InquiryDelivery = "DELIVERY"
	InquiryOrder    = "ORDER"
	InquiryReturn   = "RETURN"
	InquiryEtc      = "ETC"

	InquiryPending  = "PENDING"
	InquiryAnswered = "ANSWERED"
	InquiryClosed   = "CLOSED"
)

type Inquiry struct {
	ID              int        `json:"id"`
	UserID          *int       `json:"user_id,omitempty"`
	Email           string     `json:"email,omitempty"`
	ProductID       *int       `json:"product_id,omitempty"`
	ProductOptionID *int       `json:"product_option_id,omitempty"`
	Category        string     `json:"category"`
	Title           string     `json:"title"`
	Question        string     `json:"question"`
	Status          string     `json:"status"`
	IsPublic        bool       `json:"is_public"`
	AnsweredBy      *int       `json:"answered_by,omitempty"`
	AnsweredAt      *time.Time `json:"answered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Messages []*InquiryMessage `json:"messages,omitempty"`
}

type InquiryMessage struct {
	ID           int       `json:"id"`
	InquiryID    int       `json:"inquiry_id"`
	AuthorID     *int      `json:"author_id,omitempty"`
	IsStaffReply bool      `json:"is_staff_reply"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}
