package models

import "time"

type Notice struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	IsPinned     bool       `json:"is_pinned"`
	IsActive     bool       `json:"is_active"`
	DisplayOrder int        `json:"display_order"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Размещения баннеров (common/Banner.Placement).
const (
	BannerHomeMain    = "HOME_MAIN"
	BannerHomeSidebar = "HOME_SIDEBAR"
	BannerProductList = "PRODUCT_LIST"
	BannerCheckout    = "CHECKOUT"
	BannerEtc         = "ETC"
)

type Banner struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	ImageURL     string     `json:"image_url"`
	LinkURL      string     `json:"link_url"`
	Placement    string     `json:"placement"`
	IsActive     bool       `json:"is_active"`
	DisplayOrder int        `json:"display_order"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
