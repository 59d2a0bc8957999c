package services

import (
	"database/sql"
	"errors"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistService struct {
	Wishlists repositories.WishlistRepository
	Products  repositories.ProductRepository
}

func NewWishlistService(wishlists repositories.WishlistRepository, products repositories.ProductRepository) *WishlistService {
	return &WishlistService{Wishlists: wishlists, Products: products}
}

func (s *WishlistService) Get(userID int) (*models.Wishlist, error) {
	wl, err := s.Wishlists.GetOrCreateDefault(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Wishlists.ListItems(wl.ID)
	if err != nil {
		return nil, err
	}
	wl.Items = items
	return wl, nil
}

// AddItem идемпотентен: повторное добавление того же товара не ошибка.
func (s *WishlistService) AddItem(userID, productID int, optionID *int) (*models.Wishlist, error) {
	product, err := s.Products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductUnavailable
	}

	wl, err := s.Wishlists.GetOrCreateDefault(userID)
	if err != nil {
		return nil, err
	}
	item := &models.WishlistItem{
		WishlistID:      wl.ID,
		ProductID:       productID,
		ProductOptionID: optionID,
	}
	if err := s.Wishlists.AddItem(item); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

func (s *WishlistService) RemoveItem(userID, itemID int) (*models.Wishlist, error) {
	wl, err := s.Wishlists.GetOrCreateDefault(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Wishlists.RemoveItem(itemID, wl.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, err
	}
	return s.Get(userID)
}
