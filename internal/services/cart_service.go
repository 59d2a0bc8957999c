package services

import (
	"database/sql"
	"errors"

	"bijou/internal/models"
	"bijou/internal/repositories"
)

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrQuantityInvalid    = errors.New("quantity must be positive")
	ErrCartItemNotFound   = errors.New("cart item not found")
)

// CartService ведёт одну активную корзину на пользователя (или гостевую
// сессию). Цена фиксируется в момент добавления.
type CartService struct {
	Carts    repositories.CartRepository
	Products repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{Carts: carts, Products: products}
}

// getOrCreate возвращает активную корзину владельца, создавая при отсутствии.
func (s *CartService) getOrCreate(userID *int, sessionKey string) (*models.Cart, error) {
	var (
		cart *models.Cart
		err  error
	)
	if userID != nil {
		cart, err = s.Carts.GetActiveByUser(*userID)
	} else {
		cart, err = s.Carts.GetActiveBySession(sessionKey)
	}
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{UserID: userID, SessionKey: sessionKey, IsActive: true}
	if err := s.Carts.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Get возвращает корзину с позициями; пустая корзина — валидный ответ.
func (s *CartService) Get(userID *int, sessionKey string) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID, sessionKey)
	if err != nil {
		return nil, err
	}
	items, err := s.Carts.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

// AddItem добавляет товар; повторное добавление той же пары
// (товар, опция) суммирует количество.
func (s *CartService) AddItem(userID *int, sessionKey string, productID int, optionID *int, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrQuantityInvalid
	}
	product, err := s.Products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductUnavailable
	}

	unitPrice := product.SalePrice()
	if optionID != nil {
		opt, err := s.Products.GetOption(*optionID)
		if err != nil {
			return nil, err
		}
		if opt == nil || opt.ProductID != productID || !opt.IsActive {
			return nil, ErrProductUnavailable
		}
		unitPrice = unitPrice.Add(opt.ExtraPrice)
	}

	cart, err := s.getOrCreate(userID, sessionKey)
	if err != nil {
		return nil, err
	}
	item := &models.CartItem{
		CartID:          cart.ID,
		ProductID:       productID,
		ProductOptionID: optionID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
	}
	if err := s.Carts.UpsertItem(item); err != nil {
		return nil, err
	}
	return s.Get(userID, sessionKey)
}

func (s *CartService) UpdateQuantity(userID *int, sessionKey string, itemID, quantity int) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID, sessionKey)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		if err := s.Carts.RemoveItem(itemID, cart.ID); err != nil {
			return nil, asCartItemErr(err)
		}
	} else {
		if err := s.Carts.UpdateItemQuantity(itemID, cart.ID, quantity); err != nil {
			return nil, asCartItemErr(err)
		}
	}
	return s.Get(userID, sessionKey)
}

func (s *CartService) RemoveItem(userID *int, sessionKey string, itemID int) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := s.Carts.RemoveItem(itemID, cart.ID); err != nil {
		return nil, asCartItemErr(err)
	}
	return s.Get(userID, sessionKey)
}

func (s *CartService) Clear(userID *int, sessionKey string) error {
	cart, err := s.getOrCreate(userID, sessionKey)
	if err != nil {
		return err
	}
	return s.Carts.ClearItems(cart.ID)
}

// MergeGuestCart переносит позиции гостевой корзины в корзину пользователя
// после логина. Гостевая корзина деактивируется.
func (s *CartService) MergeGuestCart(userID int, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}
	guest, err := s.Carts.GetActiveBySession(sessionKey)
	if err != nil || guest == nil {
		return err
	}
	items, err := s.Carts.ListItems(guest.ID)
	if err != nil {
		return err
	}
	target, err := s.getOrCreate(&userID, "")
	if err != nil {
		return err
	}
	for _, it := range items {
		// Свежая копия: перечисленные позиции не трогаем, иначе гостевая
		// строка в памяти начинает совпадать сама с собой при upsert.
		moved := &models.CartItem{
			CartID:          target.ID,
			ProductID:       it.ProductID,
			ProductOptionID: it.ProductOptionID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountAmount:  it.DiscountAmount,
		}
		if err := s.Carts.UpsertItem(moved); err != nil {
			return err
		}
	}
	return s.Carts.Deactivate(guest.ID)
}

func asCartItemErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartItemNotFound
	}
	return err
}
