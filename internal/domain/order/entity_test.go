package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/order-inventory-backend/internal/domain/product"
)

func TestNewOrderItem(t *testing.T) {
	p := &product.Product{ID: 42, Name: "Widget", Price: 2000}

	item, err := NewOrderItem(p, 3)
	require.NoError(t, err)

	assert.Equal(t, uint(42), item.ProductID)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, int64(2000), item.UnitPrice)
	assert.Equal(t, int64(6000), item.LineTotal)
}

// The unit price is fixed at line creation; a later catalog price change
// must not leak into an existing line.
func TestNewOrderItemSnapshotsPrice(t *testing.T) {
	p := &product.Product{ID: 7, Name: "Widget", Price: 1500}

	item, err := NewOrderItem(p, 2)
	require.NoError(t, err)

	p.Price = 9999

	assert.Equal(t, int64(1500), item.UnitPrice)
	assert.Equal(t, int64(3000), item.LineTotal)
}

func TestNewOrderItemRejectsNonPositiveQuantity(t *testing.T) {
	p := &product.Product{ID: 1, Price: 1000}

	_, err := NewOrderItem(p, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrderItem(p, -3)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRecomputeTotals(t *testing.T) {
	order := Order{Freight: 500}

	order.RecomputeTotals([]OrderItem{
		{LineTotal: 6000},
		{LineTotal: 1500},
	})

	assert.Equal(t, int64(7500), order.Subtotal)
	assert.Equal(t, int64(8000), order.Total)
}

func TestRecomputeTotalsEmptyItems(t *testing.T) {
	order := Order{Subtotal: 6000, Freight: 500, Total: 6500}

	order.RecomputeTotals(nil)

	assert.Equal(t, int64(0), order.Subtotal)
	assert.Equal(t, int64(500), order.Total)
}

func TestGetFormattedTotal(t *testing.T) {
	order := Order{Total: 8050}
	assert.InDelta(t, 80.50, order.GetFormattedTotal(), 0.001)
}
