package cartsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-client-go/internal/api"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		stock    int
		want     int
	}{
		{"within bounds", 3, 5, 3},
		{"huge negative delta result", -97, 5, 1},
		{"huge positive delta result", 103, 5, 5},
		{"at lower bound", 1, 5, 1},
		{"at upper bound", 5, 5, 5},
		{"zero stock keeps minimum one", 3, 0, 1},
		{"zero quantity", 0, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.quantity, tt.stock))
		})
	}
}

func item(id, name string, quantity, stock int) api.CartItem {
	return api.CartItem{
		Product:  api.Product{ID: id, Name: name, InStock: stock, Price: 1},
		Quantity: quantity,
	}
}

func TestComputeOutOfStock(t *testing.T) {
	t.Run("no entries when everything fits", func(t *testing.T) {
		items := []api.CartItem{item("p1", "Apples", 3, 5)}
		assert.Empty(t, ComputeOutOfStock(items))
	})

	t.Run("entry when quantity exceeds stock", func(t *testing.T) {
		items := []api.CartItem{item("p1", "Apples", 6, 5)}
		entries := ComputeOutOfStock(items)
		require.Len(t, entries, 1)
		assert.Equal(t, api.OutOfStockEntry{ProductID: "p1", Name: "Apples", Requested: 6, Available: 5}, entries[0])
	})

	t.Run("idempotent on the same snapshot", func(t *testing.T) {
		items := []api.CartItem{item("p1", "Apples", 6, 5), item("p2", "Milk", 2, 2)}
		first := ComputeOutOfStock(items)
		second := ComputeOutOfStock(items)
		assert.Equal(t, first, second)
	})
}

func TestDetectNewOutOfStock(t *testing.T) {
	a := []api.OutOfStockEntry{{ProductID: "p1", Name: "Apples", Requested: 6, Available: 5}}

	t.Run("identical sets never re-trigger", func(t *testing.T) {
		assert.False(t, DetectNewOutOfStock(a, a))
		assert.False(t, DetectNewOutOfStock(nil, nil))
	})

	t.Run("new entry triggers", func(t *testing.T) {
		current := append([]api.OutOfStockEntry{{ProductID: "p2", Name: "Milk", Requested: 3, Available: 1}}, a...)
		assert.True(t, DetectNewOutOfStock(a, current))
	})

	t.Run("available dropping triggers", func(t *testing.T) {
		current := []api.OutOfStockEntry{{ProductID: "p1", Name: "Apples", Requested: 6, Available: 2}}
		assert.True(t, DetectNewOutOfStock(a, current))
	})

	t.Run("available rising does not trigger", func(t *testing.T) {
		current := []api.OutOfStockEntry{{ProductID: "p1", Name: "Apples", Requested: 6, Available: 5}}
		previous := []api.OutOfStockEntry{{ProductID: "p1", Name: "Apples", Requested: 6, Available: 2}}
		assert.False(t, DetectNewOutOfStock(previous, current))
	})

	t.Run("entry disappearing does not trigger", func(t *testing.T) {
		assert.False(t, DetectNewOutOfStock(a, nil))
	})
}

func TestIsCheckoutEligible(t *testing.T) {
	full := api.Cart{Items: []api.CartItem{item("p1", "Apples", 3, 5)}}

	assert.False(t, IsCheckoutEligible(api.Cart{}, nil), "empty cart")
	assert.False(t, IsCheckoutEligible(full, []api.OutOfStockEntry{{ProductID: "p1"}}), "out of stock present")
	assert.True(t, IsCheckoutEligible(full, nil))
}
