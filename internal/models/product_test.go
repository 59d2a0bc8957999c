package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProductSalePrice(t *testing.T) {
	p := &Product{Price: dec("30000")}
	assert.True(t, p.SalePrice().Equal(dec("30000")))

	discount := dec("24000")
	p.DiscountPrice = &discount
	assert.True(t, p.SalePrice().Equal(dec("24000")))
}

func TestProductDiscountRate(t *testing.T) {
	p := &Product{Price: dec("30000")}
	assert.True(t, p.DiscountRate().IsZero())

	discount := dec("24000")
	p.DiscountPrice = &discount
	assert.True(t, p.DiscountRate().Equal(dec("20")), "got %s", p.DiscountRate())

	// нулевая базовая цена не должна делить на ноль
	zero := &Product{Price: decimal.Zero, DiscountPrice: &discount}
	assert.True(t, zero.DiscountRate().IsZero())
}

func TestCartTotals(t *testing.T) {
	cart := &Cart{Items: []*CartItem{
		{Quantity: 2, UnitPrice: dec("15000")},
		{Quantity: 1, UnitPrice: dec("42000"), DiscountAmount: dec("2000")},
	}}

	assert.True(t, cart.Items[0].LineTotal().Equal(dec("30000")))
	assert.True(t, cart.Items[1].LineTotal().Equal(dec("40000")))
	assert.True(t, cart.Total().Equal(dec("70000")))
}

func TestCartTotalEmpty(t *testing.T) {
	assert.True(t, (&Cart{}).Total().IsZero())
}
