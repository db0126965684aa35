package cartsync

import "github.com/andreasstove999/storefront-client-go/internal/api"

// ClampQuantity bounds a requested quantity to [1, stock]. The lower bound
// wins when stock is zero: a cart line never drops below quantity 1, the
// out-of-stock reconciliation handles that case instead.
func ClampQuantity(quantity, stock int) int {
	if quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

// ComputeOutOfStock derives the out-of-stock set from a cart snapshot.
// Pure: it never mutates its input and always yields the same result for
// the same snapshot.
func ComputeOutOfStock(items []api.CartItem) []api.OutOfStockEntry {
	var entries []api.OutOfStockEntry
	for _, it := range items {
		if it.Quantity > it.Product.InStock {
			entries = append(entries, api.OutOfStockEntry{
				ProductID: it.Product.ID,
				Name:      it.Product.Name,
				Requested: it.Quantity,
				Available: it.Product.InStock,
			})
		}
	}
	return entries
}

// DetectNewOutOfStock reports whether current contains an entry that is new
// relative to previous, or whose available quantity has dropped since last
// observed. Identical sets never re-trigger.
func DetectNewOutOfStock(previous, current []api.OutOfStockEntry) bool {
	prev := make(map[string]int, len(previous))
	for _, e := range previous {
		prev[e.ProductID] = e.Available
	}
	for _, e := range current {
		avail, seen := prev[e.ProductID]
		if !seen || e.Available < avail {
			return true
		}
	}
	return false
}

// IsCheckoutEligible is true iff the cart has at least one item and nothing
// in it is out of stock.
func IsCheckoutEligible(cart api.Cart, outOfStock []api.OutOfStockEntry) bool {
	return len(cart.Items) > 0 && len(outOfStock) == 0
}
