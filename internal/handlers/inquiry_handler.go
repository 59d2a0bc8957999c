package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bijou/internal/models"
	"bijou/internal/services"
)

type InquiryHandler struct {
	Service *services.InquiryService
}

func NewInquiryHandler(service *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{Service: service}
}

type inquiryRequest struct {
	ProductID *int   `json:"product_id"`
	OptionID  *int   `json:"option_id"`
	Category  string `json:"category" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Question  string `json:"question" binding:"required"`
	IsPublic  bool   `json:"is_public"`
}

func (h *InquiryHandler) Create(c *gin.Context) {
	var req inquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	iq := &models.Inquiry{
		UserID:          &userID,
		ProductID:       req.ProductID,
		ProductOptionID: req.OptionID,
		Category:        req.Category,
		Title:           req.Title,
		Question:        req.Question,
		IsPublic:        req.IsPublic,
	}
	if err := h.Service.Create(iq); err != nil {
		c.JSON(inquiryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, iq)
}

func (h *InquiryHandler) ListMine(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	limit, offset := parsePaging(c)
	inquiries, err := h.Service.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inquiries)
}

func (h *InquiryHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	iq, err := h.Service.GetForUser(userID, id)
	if err != nil {
		c.JSON(inquiryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, iq)
}

type inquiryMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *InquiryHandler) AddFollowUp(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req inquiryMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	if err := h.Service.AddFollowUp(userID, id, req.Message); err != nil {
		c.JSON(inquiryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message added"})
}

// ListByStatus — админ: очередь обращений по статусу.
func (h *InquiryHandler) ListByStatus(c *gin.Context) {
	status := c.DefaultQuery("status", models.InquiryPending)
	limit, offset := parsePaging(c)
	inquiries, err := h.Service.ListByStatus(status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inquiries)
}

// Answer — админ: ответ на обращение.
func (h *InquiryHandler) Answer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req inquiryMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	staffID, _ := getUserAndRole(c)
	iq, err := h.Service.Answer(id, staffID, req.Message)
	if err != nil {
		c.JSON(inquiryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, iq)
}

func (h *InquiryHandler) Close(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Service.Close(id); err != nil {
		c.JSON(inquiryErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "inquiry closed"})
}

func inquiryErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInquiryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotInquiryOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInquiryClosed), errors.Is(err, services.ErrInvalidCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
