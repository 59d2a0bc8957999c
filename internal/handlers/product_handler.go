package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bijou/internal/models"
	"bijou/internal/services"
)

type ProductHandler struct {
	Service    *services.ProductService
	Categories *services.CategoryService
	Search     *services.SearchService
}

func NewProductHandler(service *services.ProductService, categories *services.CategoryService, search *services.SearchService) *ProductHandler {
	return &ProductHandler{Service: service, Categories: categories, Search: search}
}

// @Summary      홈 화면
// @Description  배너, 공지, 신상품/할인/인기 상품 블록
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  services.HomePayload
// @Router       /home [get]
func (h *ProductHandler) Home(c *gin.Context) {
	payload, err := h.Service.Home()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *ProductHandler) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	product, err := h.Service.GetDetail(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if product == nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	category, err := h.Categories.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	limit, offset := parsePaging(c)
	products, err := h.Service.ListByCategory(category.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "products": products})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.Categories.List(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

type productRequest struct {
	Name          string  `json:"name" binding:"required"`
	SKU           string  `json:"sku" binding:"required"`
	CategoryID    int     `json:"category_id" binding:"required"`
	Price         string  `json:"price" binding:"required"`
	DiscountPrice *string `json:"discount_price"`
	Stock         int     `json:"stock"`
	IsActive      *bool   `json:"is_active"`
	Description   string  `json:"description"`
}

func (r *productRequest) toModel(p *models.Product) error {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return err
	}
	p.Name = r.Name
	p.SKU = r.SKU
	p.CategoryID = r.CategoryID
	p.Price = price
	p.Stock = r.Stock
	p.Description = r.Description
	p.IsActive = true
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.DiscountPrice = nil
	if r.DiscountPrice != nil {
		dp, err := decimal.NewFromString(*r.DiscountPrice)
		if err != nil {
			return err
		}
		p.DiscountPrice = &dp
	}
	return nil
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product := &models.Product{}
	if err := req.toModel(product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Create(product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	existing, err := h.Service.GetByID(id)
	if err != nil || existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.toModel(existing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Update(existing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, existing)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

type optionRequest struct {
	Color      string `json:"color"`
	Size       string `json:"size"`
	ExtraPrice string `json:"extra_price"`
	Stock      int    `json:"stock"`
}

func (h *ProductHandler) AddOption(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req optionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	extra := decimal.Zero
	if req.ExtraPrice != "" {
		extra, err = decimal.NewFromString(req.ExtraPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid extra_price"})
			return
		}
	}
	opt := &models.ProductOption{
		ProductID:  productID,
		Color:      req.Color,
		Size:       req.Size,
		ExtraPrice: extra,
		Stock:      req.Stock,
		IsActive:   true,
	}
	if err := h.Service.Repo.CreateOption(opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, opt)
}

func (h *ProductHandler) AddImage(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var img models.ProductImage
	if err := c.ShouldBindJSON(&img); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img.ProductID = productID
	if err := h.Service.Repo.CreateImage(&img); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, img)
}

// Reindex — полная переиндексация каталога в поиске (админ).
func (h *ProductHandler) Reindex(c *gin.Context) {
	n, err := h.Search.Reindex()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": n})
}
