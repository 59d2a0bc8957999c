package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart — одна активная корзина на пользователя или на гостевую сессию.
type Cart struct {
	ID         int       `json:"id"`
	UserID     *int      `json:"user_id,omitempty"`
	SessionKey string    `json:"session_key,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Items []*CartItem `json:"items,omitempty"`
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type CartItem struct {
	ID              int             `json:"id"`
	CartID          int             `json:"cart_id"`
	ProductID       int             `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	ProductOptionID *int            `json:"product_option_id,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"` // цена на момент добавления
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Sub(i.DiscountAmount).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Wishlist struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`

	Items []*WishlistItem `json:"items,omitempty"`
}

type WishlistItem struct {
	ID              int    `json:"id"`
	WishlistID      int    `json:"wishlist_id"`
	ProductID       int    `json:"product_id"`
	ProductName     string `json:"product_name,omitempty"`
	ProductOptionID *int   `json:"product_option_id,omitempty"`
}
