package repositories

import (
	"database/sql"
	"time"

	"bijou/internal/models"
)

type OrderRepository interface {
	Create(o *models.Order, items []*models.OrderItem) error
	GetByID(id int) (*models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	ListByUser(userID, limit, offset int) ([]*models.Order, error)
	UpdateStatus(orderID int, status string, at time.Time) error
	SetTracking(orderID int, courier, trackingNumber string) error
	ListItems(orderID int) ([]*models.OrderItem, error)

	// проверка "verified purchase" для отзывов
	HasDeliveredItem(userID, productID int) (bool, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `
	id, order_number, user_id, delivery_id, shipping_name, shipping_phone,
	shipping_postcode, shipping_address1, shipping_address2, status,
	payment_method, payment_amount, shipping_fee, order_note,
	tracking_number, courier_name, placed_at, paid_at, shipped_at,
	delivered_at, canceled_at, refunded_at, updated_at
`

// Create пишет заказ и позиции в одной транзакции.
func (r *orderRepository) Create(o *models.Order, items []*models.OrderItem) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO orders (
			order_number, user_id, delivery_id, shipping_name, shipping_phone,
			shipping_postcode, shipping_address1, shipping_address2, status,
			payment_method, payment_amount, shipping_fee, order_note
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, placed_at, updated_at
	`
	var deliveryID any
	if o.DeliveryID != nil {
		deliveryID = *o.DeliveryID
	}
	if err := tx.QueryRow(q,
		o.OrderNumber, o.UserID, deliveryID, o.ShippingName, o.ShippingPhone,
		o.ShippingPostcode, o.ShippingAddress1, o.ShippingAddress2, o.Status,
		o.PaymentMethod, o.PaymentAmount, o.ShippingFee, o.OrderNote,
	).Scan(&o.ID, &o.PlacedAt, &o.UpdatedAt); err != nil {
		return err
	}

	const qi = `
		INSERT INTO order_items (order_id, product_id, product_name, sku, product_option_id, quantity, discount_amount, total_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	for _, it := range items {
		it.OrderID = o.ID
		var optionID any
		if it.ProductOptionID != nil {
			optionID = *it.ProductOptionID
		}
		if err := tx.QueryRow(qi,
			o.ID, it.ProductID, it.ProductName, it.SKU, optionID,
			it.Quantity, it.DiscountAmount, it.TotalPrice,
		).Scan(&it.ID); err != nil {
			return err
		}
	}
	o.Items = items
	return tx.Commit()
}

func (r *orderRepository) scanOrder(row *sql.Row) (*models.Order, error) {
	o := &models.Order{}
	var (
		deliveryID                                             sql.NullInt64
		paidAt, shippedAt, deliveredAt, canceledAt, refundedAt sql.NullTime
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &deliveryID, &o.ShippingName, &o.ShippingPhone,
		&o.ShippingPostcode, &o.ShippingAddress1, &o.ShippingAddress2, &o.Status,
		&o.PaymentMethod, &o.PaymentAmount, &o.ShippingFee, &o.OrderNote,
		&o.TrackingNumber, &o.CourierName, &o.PlacedAt, &paidAt, &shippedAt,
		&deliveredAt, &canceledAt, &refundedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if deliveryID.Valid {
		id := int(deliveryID.Int64)
		o.DeliveryID = &id
	}
	setTime := func(dst **time.Time, src sql.NullTime) {
		if src.Valid {
			t := src.Time
			*dst = &t
		}
	}
	setTime(&o.PaidAt, paidAt)
	setTime(&o.ShippedAt, shippedAt)
	setTime(&o.DeliveredAt, deliveredAt)
	setTime(&o.CanceledAt, canceledAt)
	setTime(&o.RefundedAt, refundedAt)
	return o, nil
}

func (r *orderRepository) GetByID(id int) (*models.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := r.scanOrder(r.DB.QueryRow(q, id))
	if err != nil || o == nil {
		return o, err
	}
	o.Items, err = r.ListItems(o.ID)
	return o, err
}

func (r *orderRepository) GetByNumber(orderNumber string) (*models.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	o, err := r.scanOrder(r.DB.QueryRow(q, orderNumber))
	if err != nil || o == nil {
		return o, err
	}
	o.Items, err = r.ListItems(o.ID)
	return o, err
}

func (r *orderRepository) ListByUser(userID, limit, offset int) ([]*models.Order, error) {
	const q = `
		SELECT ` + orderColumns + `
		FROM orders WHERE user_id = $1
		ORDER BY placed_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		o := &models.Order{}
		var (
			deliveryID                                             sql.NullInt64
			paidAt, shippedAt, deliveredAt, canceledAt, refundedAt sql.NullTime
		)
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &deliveryID, &o.ShippingName, &o.ShippingPhone,
			&o.ShippingPostcode, &o.ShippingAddress1, &o.ShippingAddress2, &o.Status,
			&o.PaymentMethod, &o.PaymentAmount, &o.ShippingFee, &o.OrderNote,
			&o.TrackingNumber, &o.CourierName, &o.PlacedAt, &paidAt, &shippedAt,
			&deliveredAt, &canceledAt, &refundedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if deliveryID.Valid {
			id := int(deliveryID.Int64)
			o.DeliveryID = &id
		}
		if paidAt.Valid {
			t := paidAt.Time
			o.PaidAt = &t
		}
		if shippedAt.Valid {
			t := shippedAt.Time
			o.ShippedAt = &t
		}
		if deliveredAt.Valid {
			t := deliveredAt.Time
			o.DeliveredAt = &t
		}
		if canceledAt.Valid {
			t := canceledAt.Time
			o.CanceledAt = &t
		}
		if refundedAt.Valid {
			t := refundedAt.Time
			o.RefundedAt = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus выставляет статус и соответствующий timestamp.
func (r *orderRepository) UpdateStatus(orderID int, status string, at time.Time) error {
	column := ""
	switch status {
	case models.OrderPaid:
		column = "paid_at"
	case models.OrderShipped:
		column = "shipped_at"
	case models.OrderDelivered:
		column = "delivered_at"
	case models.OrderCanceled:
		column = "canceled_at"
	case models.OrderRefunded:
		column = "refunded_at"
	}
	if column == "" {
		_, err := r.DB.Exec(`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, orderID, status)
		return err
	}
	q := `UPDATE orders SET status = $2, ` + column + ` = $3, updated_at = now() WHERE id = $1`
	_, err := r.DB.Exec(q, orderID, status, at)
	return err
}

func (r *orderRepository) SetTracking(orderID int, courier, trackingNumber string) error {
	const q = `UPDATE orders SET courier_name = $2, tracking_number = $3, updated_at = now() WHERE id = $1`
	_, err := r.DB.Exec(q, orderID, courier, trackingNumber)
	return err
}

func (r *orderRepository) ListItems(orderID int) ([]*models.OrderItem, error) {
	const q = `
		SELECT id, order_id, product_id, product_name, sku, product_option_id, quantity, discount_amount, total_price
		FROM order_items WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.OrderItem
	for rows.Next() {
		it := &models.OrderItem{}
		var optionID sql.NullInt64
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU,
			&optionID, &it.Quantity, &it.DiscountAmount, &it.TotalPrice); err != nil {
			return nil, err
		}
		if optionID.Valid {
			id := int(optionID.Int64)
			it.ProductOptionID = &id
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *orderRepository) HasDeliveredItem(userID, productID int) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM order_items i JOIN orders o ON o.id = i.order_id
			WHERE o.user_id = $1 AND i.product_id = $2 AND o.status = 'DELIVERED'
		)
	`
	var exists bool
	err := r.DB.QueryRow(q, userID, productID).Scan(&exists)
	return exists, err
}
