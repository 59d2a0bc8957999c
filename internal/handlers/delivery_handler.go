package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bijou/internal/models"
	"bijou/internal/services"
)

type DeliveryHandler struct {
	Service *services.DeliveryService
}

func NewDeliveryHandler(service *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{Service: service}
}

type deliveryRequest struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Postcode      string `json:"postcode" binding:"required"`
	AddressLine1  string `json:"address_line1" binding:"required"`
	AddressLine2  string `json:"address_line2"`
	IsDefault     bool   `json:"is_default"`
	RequestNote   string `json:"request_note"`
}

func (h *DeliveryHandler) Create(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	d := &models.Delivery{
		UserID:        userID,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Postcode:      req.Postcode,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		IsDefault:     req.IsDefault,
		RequestNote:   req.RequestNote,
	}
	if err := h.Service.Create(d); err != nil {
		c.JSON(deliveryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DeliveryHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	deliveries, err := h.Service.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

func (h *DeliveryHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	d := &models.Delivery{
		ID:            id,
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Postcode:      req.Postcode,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		IsDefault:     req.IsDefault,
		RequestNote:   req.RequestNote,
	}
	if err := h.Service.Update(userID, d); err != nil {
		c.JSON(deliveryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DeliveryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	if err := h.Service.Delete(id, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery address not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "delivery address deleted"})
}

func (h *DeliveryHandler) SetDefault(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	if err := h.Service.SetDefault(id, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery address not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "default delivery address updated"})
}

func deliveryErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrDeliveryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidRecipientPhone):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
