package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	CategoryID    int              `json:"category_id"`
	CategorySlug  string           `json:"category_slug,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Stock         int              `json:"stock"`
	IsActive      bool             `json:"is_active"`
	Description   string           `json:"description"`
	ViewCount     int              `json:"view_count"`
	SalesCount    int              `json:"sales_count"`
	ReviewCount   int              `json:"review_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Options []*ProductOption `json:"options,omitempty"`
	Images  []*ProductImage  `json:"images,omitempty"`
}

// SalePrice — цена со скидкой, если установлена, иначе базовая.
func (p *Product) SalePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// DiscountRate — скидка в процентах; 0 если скидки нет.
func (p *Product) DiscountRate() decimal.Decimal {
	if p.DiscountPrice == nil || p.Price.IsZero() {
		return decimal.Zero
	}
	return p.Price.Sub(*p.DiscountPrice).Div(p.Price).Mul(decimal.NewFromInt(100))
}

type ProductOption struct {
	ID         int             `json:"id"`
	ProductID  int             `json:"product_id"`
	Color      string          `json:"color"`
	Size       string          `json:"size"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
	Stock      int             `json:"stock"`
	IsActive   bool            `json:"is_active"`
}

type ProductImage struct {
	ID           int    `json:"id"`
	ProductID    int    `json:"product_id"`
	ImageURL     string `json:"image_url"`
	AltText      string `json:"alt_text"`
	IsMain       bool   `json:"is_main"`
	DisplayOrder int    `json:"display_order"`
}
