package repositories

import (
	"database/sql"

	"bijou/internal/models"
)

type WishlistRepository interface {
	GetOrCreateDefault(userID int) (*models.Wishlist, error)
	AddItem(item *models.WishlistItem) error
	RemoveItem(itemID, wishlistID int) error
	ListItems(wishlistID int) ([]*models.WishlistItem, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) GetOrCreateDefault(userID int) (*models.Wishlist, error) {
	w := &models.Wishlist{}
	const sel = `SELECT id, user_id, name, is_default FROM wishlists WHERE user_id = $1 AND is_default = TRUE`
	err := r.DB.QueryRow(sel, userID).Scan(&w.ID, &w.UserID, &w.Name, &w.IsDefault)
	if err == sql.ErrNoRows {
		const ins = `INSERT INTO wishlists (user_id, name, is_default) VALUES ($1, '', TRUE) RETURNING id`
		if err := r.DB.QueryRow(ins, userID).Scan(&w.ID); err != nil {
			return nil, err
		}
		w.UserID = userID
		w.IsDefault = true
		return w, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *wishlistRepository) AddItem(item *models.WishlistItem) error {
	const q = `
		INSERT INTO wishlist_items (wishlist_id, product_id, product_option_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (wishlist_id, product_id, product_option_id) DO NOTHING
		RETURNING id
	`
	var optionID any
	if item.ProductOptionID != nil {
		optionID = *item.ProductOptionID
	}
	err := r.DB.QueryRow(q, item.WishlistID, item.ProductID, optionID).Scan(&item.ID)
	if err == sql.ErrNoRows {
		// уже в списке — не ошибка
		return nil
	}
	return err
}

func (r *wishlistRepository) RemoveItem(itemID, wishlistID int) error {
	res, err := r.DB.Exec(`DELETE FROM wishlist_items WHERE id = $1 AND wishlist_id = $2`, itemID, wishlistID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *wishlistRepository) ListItems(wishlistID int) ([]*models.WishlistItem, error) {
	const q = `
		SELECT i.id, i.wishlist_id, i.product_id, p.name, i.product_option_id
		FROM wishlist_items i JOIN products p ON p.id = i.product_id
		WHERE i.wishlist_id = $1
		ORDER BY i.id
	`
	rows, err := r.DB.Query(q, wishlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.WishlistItem
	for rows.Next() {
		it := &models.WishlistItem{}
		var optionID sql.NullInt64
		if err := rows.Scan(&it.ID, &it.WishlistID, &it.ProductID, &it.ProductName, &optionID); err != nil {
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
