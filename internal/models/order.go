package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы заказа (order/Status в исходной схеме).
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderPreparing = "PREPARING"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCanceled  = "CANCELED"
	OrderRefunded  = "REFUNDED"
)

const (
	PaymentCard           = "CARD"
	PaymentBankTransfer   = "BANK_TRANSFER"
	PaymentVirtualAccount = "VIRTUAL_ACCOUNT"
	PaymentMobile         = "MOBILE"
	PaymentEtc            = "ETC"
)

type Order struct {
	ID               int             `json:"id"`
	OrderNumber      string          `json:"order_number"`
	UserID           int             `json:"user_id"`
	DeliveryID       *int            `json:"delivery_id,omitempty"`
	ShippingName     string          `json:"shipping_name"`
	ShippingPhone    string          `json:"shipping_phone"`
	ShippingPostcode string          `json:"shipping_postcode"`
	ShippingAddress1 string          `json:"shipping_address1"`
	ShippingAddress2 string          `json:"shipping_address2"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentAmount    decimal.Decimal `json:"payment_amount"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	OrderNote        string          `json:"order_note"`
	TrackingNumber   string          `json:"tracking_number"`
	CourierName      string          `json:"courier_name"`
	PlacedAt         time.Time       `json:"placed_at"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	ShippedAt        *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty"`
	CanceledAt       *time.Time      `json:"canceled_at,omitempty"`
	RefundedAt       *time.Time      `json:"refunded_at,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Items []*OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID              int             `json:"id"`
	OrderID         int             `json:"order_id"`
	ProductID       int             `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	ProductOptionID *int            `json:"product_option_id,omitempty"`
	Quantity        int             `json:"quantity"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}
