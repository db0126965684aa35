package stubapi

import "github.com/andreasstove999/storefront-client-go/internal/api"

// DemoProducts is the catalog the stub server seeds when run standalone.
func DemoProducts() []api.Product {
	return []api.Product{
		{ID: "p-apples", Name: "Apples", Description: "Fresh red apples, per kg", Category: "Fruits & Vegetables", Price: 2.50, InStock: 40},
		{ID: "p-bananas", Name: "Bananas", Description: "Ripe bananas, per kg", Category: "Fruits & Vegetables", Price: 1.20, InStock: 60},
		{ID: "p-milk", Name: "Whole Milk", Description: "1L whole milk", Category: "Dairy & Eggs", Price: 0.95, InStock: 24},
		{ID: "p-eggs", Name: "Free Range Eggs", Description: "Box of 12", Category: "Dairy & Eggs", Price: 3.10, InStock: 18},
		{ID: "p-bread", Name: "Sourdough Loaf", Description: "Baked daily", Category: "Bakery", Price: 2.80, InStock: 12},
		{ID: "p-croissant", Name: "Butter Croissant", Description: "Pack of 4", Category: "Bakery", Price: 3.40, InStock: 9},
		{ID: "p-water", Name: "Sparkling Water", Description: "6x500ml", Category: "Beverages", Price: 2.10, InStock: 50},
		{ID: "p-juice", Name: "Orange Juice", Description: "1L, not from concentrate", Category: "Beverages", Price: 1.80, InStock: 0},
	}
}
