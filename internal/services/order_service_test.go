package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bijou/internal/models"
)

func TestOrderTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{models.OrderPending, models.OrderPaid},
		{models.OrderPending, models.OrderCanceled},
		{models.OrderPaid, models.OrderPreparing},
		{models.OrderPaid, models.OrderCanceled},
		{models.OrderPaid, models.OrderRefunded},
		{models.OrderPreparing, models.OrderShipped},
		{models.OrderPreparing, models.OrderCanceled},
		{models.OrderShipped, models.OrderDelivered},
		{models.OrderDelivered, models.OrderRefunded},
	}
	for _, tr := range allowed {
		assert.True(t, canTransition(tr.from, tr.to), "%s -> %s must be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to string }{
		{models.OrderPending, models.OrderShipped},
		{models.OrderPending, models.OrderDelivered},
		{models.OrderPaid, models.OrderDelivered},
		{models.OrderShipped, models.OrderCanceled},
		{models.OrderDelivered, models.OrderCanceled},
		{models.OrderCanceled, models.OrderPaid},
		{models.OrderRefunded, models.OrderPending},
		{"BOGUS", models.OrderPaid},
	}
	for _, tr := range denied {
		assert.False(t, canTransition(tr.from, tr.to), "%s -> %s must be denied", tr.from, tr.to)
	}

	// терминальные статусы не имеют исходящих переходов
	assert.Empty(t, OrderTransitions[models.OrderCanceled])
	assert.Empty(t, OrderTransitions[models.OrderRefunded])
}

func TestNewOrderNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := newOrderNumber()
		assert.Len(t, n, 16)
		assert.NotContains(t, n, "-")
		assert.False(t, seen[n], "order number collision: %s", n)
		seen[n] = true
	}
}
