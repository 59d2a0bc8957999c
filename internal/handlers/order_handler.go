package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bijou/internal/models"
	"bijou/internal/pdf"
	"bijou/internal/services"
)

type OrderHandler struct {
	Service  *services.OrderService
	Receipts pdf.Generator
}

func NewOrderHandler(service *services.OrderService, receipts pdf.Generator) *OrderHandler {
	return &OrderHandler{Service: service, Receipts: receipts}
}

// @Summary      바로구매 주문 생성
// @Description  PENDING 주문을 만들고 토스 결제 위젯 데이터를 반환합니다
// @Tags         Order
// @Accept       json
// @Produce      json
// @Param        order  body      services.PrepareOrderInput  true  "주문 정보"
// @Success      200    {object}  services.TossCheckout
// @Failure      400    {object}  map[string]string
// @Router       /orders/prepare [post]
func (h *OrderHandler) Prepare(c *gin.Context) {
	var req services.PrepareOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	checkout, err := h.Service.PrepareOrder(userID, &req)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, checkout)
}

func (h *OrderHandler) CheckoutCart(c *gin.Context) {
	var req services.CheckoutCartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	checkout, err := h.Service.CheckoutCart(userID, &req)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// TossSuccess — redirect-энодпоинт Toss: подтверждаем платёж и переводим заказ в PAID.
func (h *OrderHandler) TossSuccess(c *gin.Context) {
	paymentKey := c.Query("paymentKey")
	orderID := c.Query("orderId")
	amountStr := c.Query("amount")
	if paymentKey == "" || orderID == "" || amountStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}
	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	order, err := h.Service.ConfirmToss(paymentKey, orderID, amount)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "결제가 완료되었습니다", "order": order})
}

func (h *OrderHandler) TossFail(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    c.Query("code"),
		"message": c.Query("message"),
	})
}

func (h *OrderHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	limit, offset := parsePaging(c)
	orders, err := h.Service.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	order, err := h.Service.GetForUser(userID, orderID)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Receipt отдаёт PDF-квитанцию оплаченного заказа.
func (h *OrderHandler) Receipt(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	order, err := h.Service.GetForUser(userID, orderID)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	if order.PaidAt == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "order is not paid"})
		return
	}

	lines := make([]pdf.ReceiptLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, pdf.ReceiptLine{
			Name:     it.ProductName,
			Quantity: it.Quantity,
			Total:    it.TotalPrice.StringFixed(0),
		})
	}
	path, err := h.Receipts.GenerateReceipt(pdf.ReceiptData{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.ShippingName,
		PaymentMethod: order.PaymentMethod,
		Amount:        order.PaymentAmount.StringFixed(0),
		PaidAt:        *order.PaidAt,
		Lines:         lines,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": path})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus — админ: перевод статуса заказа по конвейеру.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Service.UpdateStatus(orderID, req.Status)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

type trackingRequest struct {
	CourierName    string `json:"courier_name" binding:"required"`
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

func (h *OrderHandler) SetTracking(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req trackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Service.SetTracking(orderID, req.CourierName, req.TrackingNumber)
	if err != nil {
		c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	// отгрузка с трек-номером переводит заказ в SHIPPED, если он был в PREPARING
	if order.Status == models.OrderPreparing {
		order, err = h.Service.UpdateStatus(orderID, models.OrderShipped)
		if err != nil {
			c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, order)
}

func orderErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrDeliveryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrAmountMismatch):
		return http.StatusConflict
	case errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrProductUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
