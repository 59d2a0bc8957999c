package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/shopspring/decimal"

	"bijou/internal/metrics"
	"bijou/internal/models"
	"bijou/internal/repositories"
)

// ProductDocument — плоское представление товара в поисковом индексе.
type ProductDocument struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	SKU           string   `json:"sku"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price"`
	DiscountRate  float64  `json:"discount_rate"`
	IsActive      bool     `json:"is_active"`
	InStock       bool     `json:"in_stock"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	ViewCount     int      `json:"view_count"`
	SalesCount    int      `json:"sales_count"`
	ReviewCount   int      `json:"review_count"`
	CreatedAt     string   `json:"created_at"`
	Description   string   `json:"description"`
}

type SearchParams struct {
	Query    string
	Category string
	Colors   []string
	Sizes    []string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Page     int
	PerPage  int
}

type SearchResult struct {
	Hits         []any `json:"hits"`
	Total        int64 `json:"total"`
	ProcessingMs int64 `json:"processing_ms"`
	Page         int   `json:"page"`
	PerPage      int   `json:"per_page"`
}

const (
	defaultSort    = "created_at:desc"
	defaultPerPage = 24
	maxPerPage     = 100
)

// Сортировки, которые принимаем от клиента как есть.
var sortWhitelist = map[string]bool{
	"created_at:desc":    true,
	"sales_count:desc":   true,
	"view_count:desc":    true,
	"price:asc":          true,
	"price:desc":         true,
	"review_count:desc":  true,
	"discount_rate:desc": true,
}

// SearchService прячет Meilisearch за доменным API: индексация товаров
// и полнотекстовый поиск с фильтрами.
type SearchService struct {
	index    meilisearch.IndexManager
	products repositories.ProductRepository
	metrics  *metrics.Collector
}

func NewSearchService(client meilisearch.ServiceManager, indexName string, products repositories.ProductRepository, collector *metrics.Collector) *SearchService {
	return &SearchService{
		index:    client.Index(indexName),
		products: products,
		metrics:  collector,
	}
}

// InitIndex настраивает фильтруемые/сортируемые/поисковые атрибуты индекса.
// Идемпотентно, зовётся на старте приложения.
func (s *SearchService) InitIndex() error {
	settings := meilisearch.Settings{
		FilterableAttributes: []string{"category", "colors", "sizes", "is_active", "in_stock", "price"},
		SortableAttributes: []string{
			"price", "discount_rate", "created_at",
			"view_count", "sales_count", "review_count",
		},
		SearchableAttributes: []string{"name", "description", "sku"},
	}
	if _, err := s.index.UpdateSettings(&settings); err != nil {
		return fmt.Errorf("update index settings: %w", err)
	}
	return nil
}

func (s *SearchService) document(p *models.Product) *ProductDocument {
	var colors, sizes []string
	seenColor := map[string]bool{}
	seenSize := map[string]bool{}
	for _, o := range p.Options {
		if o.Color != "" && !seenColor[o.Color] {
			seenColor[o.Color] = true
			colors = append(colors, o.Color)
		}
		if o.Size != "" && !seenSize[o.Size] {
			seenSize[o.Size] = true
			sizes = append(sizes, o.Size)
		}
	}

	price, _ := p.Price.Float64()
	rate, _ := p.DiscountRate().Float64()
	var discount *float64
	if p.DiscountPrice != nil {
		v, _ := p.DiscountPrice.Float64()
		discount = &v
	}

	return &ProductDocument{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Category:      p.CategorySlug,
		Price:         price,
		DiscountPrice: discount,
		DiscountRate:  rate,
		IsActive:      p.IsActive,
		InStock:       p.Stock > 0,
		Colors:        colors,
		Sizes:         sizes,
		ViewCount:     p.ViewCount,
		SalesCount:    p.SalesCount,
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Description:   p.Description,
	}
}

// IndexProduct кладёт товар в индекс (upsert по id).
func (s *SearchService) IndexProduct(p *models.Product) error {
	if _, err := s.index.AddDocuments([]*ProductDocument{s.document(p)}); err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	return nil
}

func (s *SearchService) DeleteProduct(productID int) error {
	if _, err := s.index.DeleteDocument(fmt.Sprintf("%d", productID)); err != nil {
		return fmt.Errorf("delete product %d from index: %w", productID, err)
	}
	return nil
}

// Reindex перестраивает индекс целиком из БД.
func (s *SearchService) Reindex() (int, error) {
	products, err := s.products.ListAll()
	if err != nil {
		return 0, err
	}
	docs := make([]*ProductDocument, 0, len(products))
	for _, p := range products {
		opts, err := s.products.ListOptions(p.ID)
		if err != nil {
			return 0, err
		}
		p.Options = opts
		docs = append(docs, s.document(p))
	}
	if len(docs) > 0 {
		if _, err := s.index.AddDocuments(docs); err != nil {
			return 0, fmt.Errorf("bulk index: %w", err)
		}
	}
	log.Printf("[search][reindex] indexed %d products", len(docs))
	return len(docs), nil
}

// buildFilter собирает Meilisearch filter expression из параметров.
// Пользовательские значения экранируются через quote.
func buildFilter(p *SearchParams) string {
	filters := []string{"is_active = true"}
	if p.Category != "" {
		filters = append(filters, fmt.Sprintf("category = %s", quote(p.Category)))
	}
	if len(p.Colors) > 0 {
		parts := make([]string, 0, len(p.Colors))
		for _, c := range p.Colors {
			parts = append(parts, fmt.Sprintf("colors = %s", quote(c)))
		}
		filters = append(filters, "("+strings.Join(parts, " OR ")+")")
	}
	if len(p.Sizes) > 0 {
		parts := make([]string, 0, len(p.Sizes))
		for _, sz := range p.Sizes {
			parts = append(parts, fmt.Sprintf("sizes = %s", quote(sz)))
		}
		filters = append(filters, "("+strings.Join(parts, " OR ")+")")
	}
	if p.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %s", p.MinPrice.String()))
	}
	if p.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %s", p.MaxPrice.String()))
	}
	return strings.Join(filters, " AND ")
}

func quote(v string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
}

// Search выполняет пользовательский поиск. Невалидная сортировка молча
// заменяется на дефолтную; per_page ограничен сверху.
func (s *SearchService) Search(p *SearchParams) (*SearchResult, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	sort := p.Sort
	if !sortWhitelist[sort] {
		sort = defaultSort
	}

	req := &meilisearch.SearchRequest{
		Filter: buildFilter(p),
		Sort:   []string{sort},
		Limit:  int64(p.PerPage),
		Offset: int64((p.Page - 1) * p.PerPage),
		AttributesToRetrieve: []string{
			"id", "name", "price", "discount_price", "discount_rate",
			"colors", "sizes", "view_count", "sales_count", "review_count", "category",
		},
	}

	res, err := s.index.Search(p.Query, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordSearchQuery()
	}
	return &SearchResult{
		Hits:         res.Hits,
		Total:        res.EstimatedTotalHits,
		ProcessingMs: res.ProcessingTimeMs,
		Page:         p.Page,
		PerPage:      p.PerPage,
	}, nil
}

// Autocomplete — короткая выдача для подсказок в строке поиска.
func (s *SearchService) Autocomplete(q string) ([]any, error) {
	if strings.TrimSpace(q) == "" {
		return []any{}, nil
	}
	res, err := s.index.Search(q, &meilisearch.SearchRequest{
		Limit:                5,
		AttributesToRetrieve: []string{"id", "name", "sku"},
	})
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return res.Hits, nil
}
