package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bijou/internal/services"
)

type WishlistHandler struct {
	Service *services.WishlistService
}

func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{Service: service}
}

func (h *WishlistHandler) Get(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	wl, err := h.Service.Get(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wl)
}

type addWishlistItemRequest struct {
	ProductID int  `json:"product_id" binding:"required"`
	OptionID  *int `json:"option_id"`
}

func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req addWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	wl, err := h.Service.AddItem(userID, req.ProductID, req.OptionID)
	if err != nil {
		if errors.Is(err, services.ErrProductUnavailable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wl)
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	userID, _ := getUserAndRole(c)
	wl, err := h.Service.RemoveItem(userID, itemID)
	if err != nil {
		if errors.Is(err, services.ErrWishlistItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wl)
}
