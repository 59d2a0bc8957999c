package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bijou/internal/metrics"
	"bijou/internal/models"
	"bijou/internal/repositories"
	"bijou/internal/utils"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrAmountMismatch    = errors.New("payment amount mismatch")
	ErrOutOfStock        = errors.New("not enough stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDeliveryNotFound  = errors.New("delivery address not found")
	ErrNotOrderOwner     = errors.New("order belongs to another user")
)

// Допустимые переходы статусов заказа.
var OrderTransitions = map[string]map[string]bool{
	models.OrderPending:   {models.OrderPaid: true, models.OrderCanceled: true},
	models.OrderPaid:      {models.OrderPreparing: true, models.OrderCanceled: true, models.OrderRefunded: true},
	models.OrderPreparing: {models.OrderShipped: true, models.OrderCanceled: true},
	models.OrderShipped:   {models.OrderDelivered: true},
	models.OrderDelivered: {models.OrderRefunded: true},
	models.OrderCanceled:  {},
	models.OrderRefunded:  {},
}

func canTransition(current, to string) bool {
	nexts, ok := OrderTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

const lowStockThreshold = 5

// TossCheckout — данные для инициализации платёжного виджета на клиенте.
type TossCheckout struct {
	OrderID      string  `json:"orderId"`
	OrderName    string  `json:"orderName"`
	Amount       float64 `json:"amount"`
	CustomerName string  `json:"customerName"`
	SuccessURL   string  `json:"successUrl"`
	FailURL      string  `json:"failUrl"`
}

type PrepareOrderInput struct {
	ProductID  int    `json:"product_id" binding:"required"`
	OptionID   *int   `json:"option_id"`
	Quantity   int    `json:"quantity"`
	DeliveryID int    `json:"delivery_id" binding:"required"`
	Payment    string `json:"payment_method"`
	OrderNote  string `json:"order_note"`
}

type CheckoutCartInput struct {
	DeliveryID int    `json:"delivery_id" binding:"required"`
	Payment    string `json:"payment_method"`
	OrderNote  string `json:"order_note"`
}

type OrderService struct {
	Orders     repositories.OrderRepository
	Products   repositories.ProductRepository
	Carts      *CartService
	Deliveries repositories.DeliveryRepository
	Accounts   repositories.AccountRepository
	Toss       *utils.TossClient
	Emails     EmailService
	Telegram   *TelegramService
	Metrics    *metrics.Collector

	SuccessURL string
	FailURL    string
}

func NewOrderService(
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
	carts *CartService,
	deliveries repositories.DeliveryRepository,
	accounts repositories.AccountRepository,
	toss *utils.TossClient,
	emails EmailService,
	telegram *TelegramService,
	collector *metrics.Collector,
	successURL, failURL string,
) *OrderService {
	return &OrderService{
		Orders:     orders,
		Products:   products,
		Carts:      carts,
		Deliveries: deliveries,
		Accounts:   accounts,
		Toss:       toss,
		Emails:     emails,
		Telegram:   telegram,
		Metrics:    collector,
		SuccessURL: successURL,
		FailURL:    failURL,
	}
}

func newOrderNumber() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

func (s *OrderService) loadDelivery(userID, deliveryID int) (*models.Delivery, error) {
	d, err := s.Deliveries.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.UserID != userID {
		return nil, ErrDeliveryNotFound
	}
	return d, nil
}

// PrepareOrder — "바로구매": заказ на один товар в PENDING и данные для
// виджета Toss. Склад на этом шаге не трогаем, только при подтверждении оплаты.
func (s *OrderService) PrepareOrder(userID int, in *PrepareOrderInput) (*TossCheckout, error) {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	product, err := s.Products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductUnavailable
	}
	if product.Stock < qty {
		return nil, ErrOutOfStock
	}

	price := product.SalePrice()
	orderName := product.Name
	if in.OptionID != nil {
		opt, err := s.Products.GetOption(*in.OptionID)
		if err != nil {
			return nil, err
		}
		if opt == nil || opt.ProductID != product.ID {
			return nil, ErrProductUnavailable
		}
		price = price.Add(opt.ExtraPrice)
		if opt.Size != "" {
			orderName = orderName + " - " + opt.Size
		}
	}

	delivery, err := s.loadDelivery(userID, in.DeliveryID)
	if err != nil {
		return nil, err
	}

	item := &models.OrderItem{
		ProductID:       product.ID,
		ProductName:     product.Name,
		SKU:             product.SKU,
		ProductOptionID: in.OptionID,
		Quantity:        qty,
		TotalPrice:      price.Mul(decimal.NewFromInt(int64(qty))),
	}
	return s.place(userID, delivery, orderName, in.Payment, in.OrderNote, []*models.OrderItem{item})
}

// CheckoutCart оформляет всю активную корзину одной оплатой.
func (s *OrderService) CheckoutCart(userID int, in *CheckoutCartInput) (*TossCheckout, error) {
	cart, err := s.Carts.Get(&userID, "")
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	delivery, err := s.loadDelivery(userID, in.DeliveryID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, &models.OrderItem{
			ProductID:       ci.ProductID,
			ProductName:     ci.ProductName,
			ProductOptionID: ci.ProductOptionID,
			Quantity:        ci.Quantity,
			DiscountAmount:  ci.DiscountAmount,
			TotalPrice:      ci.LineTotal(),
		})
	}
	orderName := cart.Items[0].ProductName
	if len(cart.Items) > 1 {
		orderName = fmt.Sprintf("%s 외 %d건", orderName, len(cart.Items)-1)
	}
	return s.place(userID, delivery, orderName, in.Payment, in.OrderNote, items)
}

func (s *OrderService) place(userID int, delivery *models.Delivery, orderName, payment, note string, items []*models.OrderItem) (*TossCheckout, error) {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	if payment == "" {
		payment = models.PaymentCard
	}

	order := &models.Order{
		OrderNumber:      newOrderNumber(),
		UserID:           userID,
		DeliveryID:       &delivery.ID,
		ShippingName:     delivery.RecipientName,
		ShippingPhone:    delivery.Phone,
		ShippingPostcode: delivery.Postcode,
		ShippingAddress1: delivery.AddressLine1,
		ShippingAddress2: delivery.AddressLine2,
		Status:           models.OrderPending,
		PaymentMethod:    payment,
		PaymentAmount:    total,
		OrderNote:        note,
	}
	if err := s.Orders.Create(order, items); err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.RecordOrderPlaced()
	}
	log.Printf("[order][prepare] order created number=%s user_id=%d amount=%s items=%d",
		order.OrderNumber, userID, total.String(), len(items))

	customer := ""
	if acc, err := s.Accounts.GetByID(userID); err == nil && acc != nil {
		customer = acc.Username
	}
	amount, _ := total.Float64()
	return &TossCheckout{
		OrderID:      order.OrderNumber,
		OrderName:    orderName,
		Amount:       amount,
		CustomerName: customer,
		SuccessURL:   s.SuccessURL,
		FailURL:      s.FailURL,
	}, nil
}

// ConfirmToss подтверждает оплату у Toss и переводит заказ в PAID:
// списывает склад, копит sales_count, чистит корзину, шлёт алерты.
func (s *OrderService) ConfirmToss(paymentKey, orderNumber string, amount int64) (*models.Order, error) {
	order, err := s.Orders.GetByNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !decimal.NewFromInt(amount).Equal(order.PaymentAmount) {
		log.Printf("[order][confirm] amount mismatch number=%s got=%d want=%s", orderNumber, amount, order.PaymentAmount.String())
		return nil, ErrAmountMismatch
	}
	if !canTransition(order.Status, models.OrderPaid) {
		return nil, ErrInvalidTransition
	}

	if _, err := s.Toss.ConfirmPayment(paymentKey, orderNumber, amount); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.Orders.UpdateStatus(order.ID, models.OrderPaid, now); err != nil {
		return nil, err
	}
	order.Status = models.OrderPaid
	order.PaidAt = &now

	for _, it := range order.Items {
		ok, err := s.Products.DecrementStock(it.ProductID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			// оплата уже прошла; фиксируем овердрафт склада в логе, заказ не валим
			log.Printf("[order][confirm] stock overdraft product_id=%d qty=%d number=%s", it.ProductID, it.Quantity, orderNumber)
		}
		if it.ProductOptionID != nil {
			if _, err := s.Products.DecrementOptionStock(*it.ProductOptionID, it.Quantity); err != nil {
				return nil, err
			}
		}
		if err := s.Products.AddSales(it.ProductID, it.Quantity); err != nil {
			log.Printf("[order][confirm] sales count update failed product_id=%d err=%v", it.ProductID, err)
		}
		if p, err := s.Products.GetByID(it.ProductID); err == nil && p != nil && p.Stock <= lowStockThreshold {
			s.Telegram.NotifyLowStock(p.Name, p.Stock)
		}
	}

	if err := s.Carts.Clear(&order.UserID, ""); err != nil {
		log.Printf("[order][confirm] cart clear failed user_id=%d err=%v", order.UserID, err)
	}
	if s.Metrics != nil {
		s.Metrics.RecordOrderPaid()
	}
	s.Telegram.NotifyOrderPaid(order)

	if acc, err := s.Accounts.GetByID(order.UserID); err == nil && acc != nil && s.Emails != nil {
		if err := s.Emails.SendOrderConfirmation(acc.Email, order.OrderNumber); err != nil {
			log.Printf("[order][confirm] warning: confirmation email failed email=%s err=%v", acc.Email, err)
		}
	}

	log.Printf("[order][confirm] PAID number=%s amount=%d", orderNumber, amount)
	return order, nil
}

// UpdateStatus — админский перевод статуса с проверкой допустимости перехода.
func (s *OrderService) UpdateStatus(orderID int, to string) (*models.Order, error) {
	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !canTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}
	if err := s.Orders.UpdateStatus(orderID, to, time.Now()); err != nil {
		return nil, err
	}
	return s.Orders.GetByID(orderID)
}

func (s *OrderService) SetTracking(orderID int, courier, trackingNumber string) (*models.Order, error) {
	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := s.Orders.SetTracking(orderID, courier, trackingNumber); err != nil {
		return nil, err
	}
	return s.Orders.GetByID(orderID)
}

func (s *OrderService) ListByUser(userID, limit, offset int) ([]*models.Order, error) {
	return s.Orders.ListByUser(userID, limit, offset)
}

// GetForUser отдаёт заказ только его владельцу.
func (s *OrderService) GetForUser(userID, orderID int) (*models.Order, error) {
	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}
