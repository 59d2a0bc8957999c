package services

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bijou/internal/models"
)

type fakeCartRepo struct {
	carts  []*models.Cart
	items  []*models.CartItem
	nextID int
}

func (f *fakeCartRepo) findActive(pred func(*models.Cart) bool) *models.Cart {
	for _, c := range f.carts {
		if c.IsActive && pred(c) {
			return c
		}
	}
	return nil
}

func (f *fakeCartRepo) GetActiveByUser(userID int) (*models.Cart, error) {
	return f.findActive(func(c *models.Cart) bool { return c.UserID != nil && *c.UserID == userID }), nil
}

func (f *fakeCartRepo) GetActiveBySession(sessionKey string) (*models.Cart, error) {
	return f.findActive(func(c *models.Cart) bool { return c.UserID == nil && c.SessionKey == sessionKey }), nil
}

func (f *fakeCartRepo) Create(cart *models.Cart) error {
	f.nextID++
	cart.ID = f.nextID
	f.carts = append(f.carts, cart)
	return nil
}

func (f *fakeCartRepo) Deactivate(cartID int) error {
	for _, c := range f.carts {
		if c.ID == cartID {
			c.IsActive = false
		}
	}
	return nil
}

func (f *fakeCartRepo) UpsertItem(item *models.CartItem) error {
	for _, it := range f.items {
		sameOption := (it.ProductOptionID == nil && item.ProductOptionID == nil) ||
			(it.ProductOptionID != nil && item.ProductOptionID != nil && *it.ProductOptionID == *item.ProductOptionID)
		if it.CartID == item.CartID && it.ProductID == item.ProductID && sameOption {
			it.Quantity += item.Quantity
			return nil
		}
	}
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, item)
	return nil
}

func (f *fakeCartRepo) UpdateItemQuantity(itemID, cartID, quantity int) error {
	for _, it := range f.items {
		if it.ID == itemID && it.CartID == cartID {
			it.Quantity = quantity
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeCartRepo) RemoveItem(itemID, cartID int) error {
	for i, it := range f.items {
		if it.ID == itemID && it.CartID == cartID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeCartRepo) ListItems(cartID int) ([]*models.CartItem, error) {
	var out []*models.CartItem
	for _, it := range f.items {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) ClearItems(cartID int) error {
	var kept []*models.CartItem
	for _, it := range f.items {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

type fakeProductRepo struct {
	products map[int]*models.Product
	options  map[int]*models.ProductOption
}

func (f *fakeProductRepo) Create(*models.Product) error            { return nil }
func (f *fakeProductRepo) GetByID(id int) (*models.Product, error) { return f.products[id], nil }
func (f *fakeProductRepo) Update(*models.Product) error            { return nil }
func (f *fakeProductRepo) Delete(int) error                        { return nil }
func (f *fakeProductRepo) ListByCategory(int, int, int) ([]*models.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListAll() ([]*models.Product, error)         { return nil, nil }
func (f *fakeProductRepo) ListNew(int) ([]*models.Product, error)      { return nil, nil }
func (f *fakeProductRepo) ListOnSale(int) ([]*models.Product, error)   { return nil, nil }
func (f *fakeProductRepo) ListPopular(int) ([]*models.Product, error)  { return nil, nil }
func (f *fakeProductRepo) IncrementViewCount(int) error                { return nil }
func (f *fakeProductRepo) AddSales(int, int) error                     { return nil }
func (f *fakeProductRepo) IncrementReviewCount(int) error              { return nil }
func (f *fakeProductRepo) DecrementStock(int, int) (bool, error)       { return true, nil }
func (f *fakeProductRepo) DecrementOptionStock(int, int) (bool, error) { return true, nil }
func (f *fakeProductRepo) CreateOption(*models.ProductOption) error    { return nil }
func (f *fakeProductRepo) GetOption(id int) (*models.ProductOption, error) {
	return f.options[id], nil
}
func (f *fakeProductRepo) ListOptions(int) ([]*models.ProductOption, error) { return nil, nil }
func (f *fakeProductRepo) CreateImage(*models.ProductImage) error           { return nil }
func (f *fakeProductRepo) ListImages(int) ([]*models.ProductImage, error)   { return nil, nil }

func newCartTest() (*CartService, *fakeCartRepo, *fakeProductRepo) {
	discount := decimal.RequireFromString("24000")
	products := &fakeProductRepo{
		products: map[int]*models.Product{
			1: {ID: 1, Name: "실버 링", Price: decimal.RequireFromString("30000"), DiscountPrice: &discount, Stock: 10, IsActive: true},
			2: {ID: 2, Name: "단종 상품", Price: decimal.RequireFromString("10000"), Stock: 0, IsActive: false},
		},
		options: map[int]*models.ProductOption{
			11: {ID: 11, ProductID: 1, Size: "L", ExtraPrice: decimal.RequireFromString("2000"), Stock: 3, IsActive: true},
			12: {ID: 12, ProductID: 2, Size: "M", IsActive: true},
		},
	}
	carts := &fakeCartRepo{}
	return NewCartService(carts, products), carts, products
}

func TestCartAddItemFixesSalePrice(t *testing.T) {
	svc, _, _ := newCartTest()

	cart, err := svc.AddItem(nil, "guest-1", 1, nil, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	// фиксируется цена со скидкой на момент добавления
	require.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("24000")))
	require.True(t, cart.Total().Equal(decimal.RequireFromString("48000")))
}

func TestCartAddItemWithOptionExtraPrice(t *testing.T) {
	svc, _, _ := newCartTest()
	optID := 11

	cart, err := svc.AddItem(nil, "guest-1", 1, &optID, 1)
	require.NoError(t, err)
	require.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("26000")))
}

func TestCartAddItemMergesSameLine(t *testing.T) {
	svc, _, _ := newCartTest()

	_, err := svc.AddItem(nil, "guest-1", 1, nil, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(nil, "guest-1", 1, nil, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartAddItemRejectsInactiveProduct(t *testing.T) {
	svc, _, _ := newCartTest()

	_, err := svc.AddItem(nil, "guest-1", 2, nil, 1)
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartAddItemRejectsForeignOption(t *testing.T) {
	svc, _, _ := newCartTest()
	optID := 12 // опция другого товара

	_, err := svc.AddItem(nil, "guest-1", 1, &optID, 1)
	require.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartAddItemRejectsBadQuantity(t *testing.T) {
	svc, _, _ := newCartTest()

	_, err := svc.AddItem(nil, "guest-1", 1, nil, 0)
	require.ErrorIs(t, err, ErrQuantityInvalid)
}

func TestCartUpdateQuantityZeroRemoves(t *testing.T) {
	svc, _, _ := newCartTest()

	cart, err := svc.AddItem(nil, "guest-1", 1, nil, 2)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateQuantity(nil, "guest-1", itemID, 0)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
}

func TestCartRemoveMissingItem(t *testing.T) {
	svc, _, _ := newCartTest()

	_, err := svc.RemoveItem(nil, "guest-1", 999)
	require.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestMergeGuestCart(t *testing.T) {
	svc, carts, _ := newCartTest()

	_, err := svc.AddItem(nil, "guest-1", 1, nil, 2)
	require.NoError(t, err)

	// до логина пользователь уже положил позицию в свою корзину
	userID := 5
	_, err = svc.AddItem(&userID, "", 1, nil, 1)
	require.NoError(t, err)

	require.NoError(t, svc.MergeGuestCart(userID, "guest-1"))

	cart, err := svc.Get(&userID, "")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 3, cart.Items[0].Quantity)

	// гостевая корзина погашена
	guest, err := carts.GetActiveBySession("guest-1")
	require.NoError(t, err)
	require.Nil(t, guest)
}

func TestMergeGuestCartNoSession(t *testing.T) {
	svc, _, _ := newCartTest()
	require.NoError(t, svc.MergeGuestCart(5, ""))
}
