package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bijou/internal/models"
	"bijou/internal/services"
)

type ReviewHandler struct {
	Service *services.ReviewService
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: service}
}

type reviewRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	OptionID  *int   `json:"option_id"`
	Rating    int    `json:"rating" binding:"required"`
	Title     string `json:"title"`
	Content   string `json:"content" binding:"required"`
	IsPublic  *bool  `json:"is_public"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	rv := &models.Review{
		UserID:          userID,
		ProductID:       req.ProductID,
		ProductOptionID: req.OptionID,
		Rating:          req.Rating,
		Title:           req.Title,
		Content:         req.Content,
		IsPublic:        true,
	}
	if req.IsPublic != nil {
		rv.IsPublic = *req.IsPublic
	}
	if err := h.Service.Create(rv); err != nil {
		c.JSON(reviewErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	limit, offset := parsePaging(c)
	reviews, total, err := h.Service.ListByProduct(productID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": total})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := getUserAndRole(c)
	rv := &models.Review{
		ID:       id,
		Rating:   req.Rating,
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: true,
	}
	if req.IsPublic != nil {
		rv.IsPublic = *req.IsPublic
	}
	if err := h.Service.Update(userID, rv); err != nil {
		c.JSON(reviewErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rv)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, _ := getUserAndRole(c)
	if err := h.Service.Delete(id, userID); err != nil {
		c.JSON(reviewErrStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Service.MarkHelpful(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "thanks"})
}

func reviewErrStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotReviewOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidRating):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
