package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bijou/internal/services"
)

type SearchHandler struct {
	Service *services.SearchService
}

func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{Service: service}
}

// @Summary      상품 검색
// @Description  Meilisearch 기반 전문 검색 + 필터/정렬/페이지네이션
// @Tags         Search
// @Produce      json
// @Param        q          query     string  false  "검색어"
// @Param        category   query     string  false  "카테고리 slug"
// @Param        color      query     []string false "색상 필터"
// @Param        size       query     []string false "사이즈 필터"
// @Param        min_price  query     string  false  "최소 가격"
// @Param        max_price  query     string  false  "최대 가격"
// @Param        sort       query     string  false  "정렬 (예: price:asc)"
// @Param        page       query     int     false  "페이지"
// @Param        per_page   query     int     false  "페이지 크기 (최대 100)"
// @Success      200        {object}  services.SearchResult
// @Router       /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	params := &services.SearchParams{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Colors:   nonEmpty(c.QueryArray("color")),
		Sizes:    nonEmpty(c.QueryArray("size")),
		Sort:     c.Query("sort"),
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "24"))

	if v := c.Query("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		params.MinPrice = &d
	}
	if v := c.Query("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		params.MaxPrice = &d
	}

	result, err := h.Service.Search(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SearchHandler) Autocomplete(c *gin.Context) {
	hits, err := h.Service.Autocomplete(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
