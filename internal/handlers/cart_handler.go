package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bijou/internal/services"
)

type CartHandler struct {
	Service *services.CartService
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{Service: service}
}

// owner — пользователь или гостевая сессия из куки.
func (h *CartHandler) owner(c *gin.Context) (*int, string) {
	userID := optionalUserID(c)
	if userID != nil {
		return userID, ""
	}
	return nil, cartSessionID(c)
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, sessionKey := h.owner(c)
	cart, err := h.Service.Get(userID, sessionKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "total": cart.Total()})
}

type addCartItemRequest struct {
	ProductID int  `json:"product_id" binding:"required"`
	OptionID  *int `json:"option_id"`
	Quantity  int  `json:"quantity"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	userID, sessionKey := h.owner(c)
	cart, err := h.Service.AddItem(userID, sessionKey, req.ProductID, req.OptionID, req.Quantity)
	if err != nil {
		c.JSON(cartErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "total": cart.Total()})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, sessionKey := h.owner(c)
	cart, err := h.Service.UpdateQuantity(userID, sessionKey, itemID, req.Quantity)
	if err != nil {
		c.JSON(cartErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "total": cart.Total()})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	userID, sessionKey := h.owner(c)
	cart, err := h.Service.RemoveItem(userID, sessionKey, itemID)
	if err != nil {
		c.JSON(cartErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "total": cart.Total()})
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, sessionKey := h.owner(c)
	if err := h.Service.Clear(userID, sessionKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func cartErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrProductUnavailable), errors.Is(err, services.ErrQuantityInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
