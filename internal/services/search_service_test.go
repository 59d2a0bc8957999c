package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestBuildFilter(t *testing.T) {
	cases := []struct {
		name   string
		params SearchParams
		want   string
	}{
		{
			"no params",
			SearchParams{},
			`is_active = true`,
		},
		{
			"category only",
			SearchParams{Category: "earrings"},
			`is_active = true AND category = "earrings"`,
		},
		{
			"colors or-group",
			SearchParams{Colors: []string{"gold", "silver"}},
			`is_active = true AND (colors = "gold" OR colors = "silver")`,
		},
		{
			"sizes or-group",
			SearchParams{Sizes: []string{"S", "M"}},
			`is_active = true AND (sizes = "S" OR sizes = "M")`,
		},
		{
			"price range",
			SearchParams{MinPrice: decPtr("10000"), MaxPrice: decPtr("50000")},
			`is_active = true AND price >= 10000 AND price <= 50000`,
		},
		{
			"everything",
			SearchParams{
				Category: "rings",
				Colors:   []string{"gold"},
				MinPrice: decPtr("5000"),
			},
			`is_active = true AND category = "rings" AND (colors = "gold") AND price >= 5000`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildFilter(&tc.params))
		})
	}
}

func TestQuoteEscapes(t *testing.T) {
	assert.Equal(t, `"plain"`, quote("plain"))
	assert.Equal(t, `"a\"b"`, quote(`a"b`))
	assert.Equal(t, `"a\\b"`, quote(`a\b`))
	// попытка выбраться из строки фильтра
	assert.Equal(t, `"x\" OR is_active = false"`, quote(`x" OR is_active = false`))
}

func TestSortWhitelist(t *testing.T) {
	for _, s := range []string{
		"created_at:desc", "sales_count:desc", "view_count:desc",
		"price:asc", "price:desc", "review_count:desc", "discount_rate:desc",
	} {
		assert.True(t, sortWhitelist[s], "expected %q whitelisted", s)
	}
	for _, s := range []string{"", "price:random", "name:asc", "id:desc; DROP"} {
		assert.False(t, sortWhitelist[s], "expected %q rejected", s)
	}
}
