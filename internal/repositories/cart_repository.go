package repositories

import (
	"database/sql"

	"bijou/internal/models"
)

type CartRepository interface {
	GetActiveByUser(userID int) (*models.Cart, error)
	GetActiveBySession(sessionKey string) (*models.Cart, error)
	Create(cart *models.Cart) error
	Deactivate(cartID int) error

	UpsertItem(item *models.CartItem) error
	UpdateItemQuantity(itemID, cartID, quantity int) error
	RemoveItem(itemID, cartID int) error
	ListItems(cartID int) ([]*models.CartItem, error)
	ClearItems(cartID int) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) scanCart(row *sql.Row) (*models.Cart, error) {
	cart := &models.Cart{}
	var userID sql.NullInt64
	err := row.Scan(&cart.ID, &userID, &cart.SessionKey, &cart.IsActive, &cart.CreatedAt, &cart.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := int(userID.Int64)
		cart.UserID = &id
	}
	return cart, nil
}

func (r *cartRepository) GetActiveByUser(userID int) (*models.Cart, error) {
	const q = `
		SELECT id, user_id, session_key, is_active, created_at, updated_at
		FROM carts WHERE user_id = $1 AND is_active = TRUE
	`
	return r.scanCart(r.DB.QueryRow(q, userID))
}

func (r *cartRepository) GetActiveBySession(sessionKey string) (*models.Cart, error) {
	const q = `
		SELECT id, user_id, session_key, is_active, created_at, updated_at
		FROM carts WHERE session_key = $1 AND is_active = TRUE
	`
	return r.scanCart(r.DB.QueryRow(q, sessionKey))
}

func (r *cartRepository) Create(cart *models.Cart) error {
	const q = `
		INSERT INTO carts (user_id, session_key, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, created_at, updated_at
	`
	var userID any
	if cart.UserID != nil {
		userID = *cart.UserID
	}
	cart.IsActive = true
	return r.DB.QueryRow(q, userID, cart.SessionKey).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
}

func (r *cartRepository) Deactivate(cartID int) error {
	_, err := r.DB.Exec(`UPDATE carts SET is_active = FALSE, updated_at = now() WHERE id = $1`, cartID)
	return err
}

// UpsertItem: повторное добавление той же позиции суммирует количество.
func (r *cartRepository) UpsertItem(item *models.CartItem) error {
	const q = `
		INSERT INTO cart_items (cart_id, product_id, product_option_id, quantity, unit_price, discount_amount)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (cart_id, product_id, COALESCE(product_option_id, 0))
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity
	`
	var optionID any
	if item.ProductOptionID != nil {
		optionID = *item.ProductOptionID
	}
	return r.DB.QueryRow(q,
		item.CartID, item.ProductID, optionID, item.Quantity, item.UnitPrice, item.DiscountAmount,
	).Scan(&item.ID, &item.Quantity)
}

func (r *cartRepository) UpdateItemQuantity(itemID, cartID, quantity int) error {
	const q = `UPDATE cart_items SET quantity = $3 WHERE id = $1 AND cart_id = $2`
	res, err := r.DB.Exec(q, itemID, cartID, quantity)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cartRepository) RemoveItem(itemID, cartID int) error {
	res, err := r.DB.Exec(`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cartRepository) ListItems(cartID int) ([]*models.CartItem, error) {
	const q = `
		SELECT i.id, i.cart_id, i.product_id, p.name, i.product_option_id,
		       i.quantity, i.unit_price, i.discount_amount
		FROM cart_items i JOIN products p ON p.id = i.product_id
		WHERE i.cart_id = $1
		ORDER BY i.id
	`
	rows, err := r.DB.Query(q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CartItem
	for rows.Next() {
		it := &models.CartItem{}
		var optionID sql.NullInt64
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &optionID,
			&it.Quantity, &it.UnitPrice, &it.DiscountAmount); err != nil {
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

func (r *cartRepository) ClearItems(cartID int) error {
	_, err := r.DB.Exec(`DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}
