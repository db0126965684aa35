package main

import (
	"fmt"

	"github.com/andreasstove999/storefront-client-go/internal/api"
	"github.com/andreasstove999/storefront-client-go/internal/cartsync"
)

func printCart(cart api.Cart) {
	if len(cart.Items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, it := range cart.Items {
		fmt.Printf("%-22s $%-8.2f x%-4d $%.2f\n", it.Product.Name, it.Product.Price, it.Quantity, it.ItemTotal)
	}
	fmt.Printf("Total: $%.2f\n", cart.TotalAmount)
}

func printSnapshot(snap cartsync.Snapshot) {
	if snap.Err != nil {
		fmt.Printf("(showing last known cart; refresh failed: %v)\n", snap.Err)
	}
	if len(snap.Cart.Items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, it := range snap.Cart.Items {
		qty := snap.Quantity(it.Product.ID)
		marker := ""
		if p, ok := snap.Pending[it.Product.ID]; ok && p.Status == cartsync.StatusPending {
			marker = " (updating...)"
		}
		fmt.Printf("%-22s $%-8.2f x%-4d $%.2f%s\n", it.Product.Name, it.Product.Price, qty, it.Product.Price*float64(qty), marker)
	}
	fmt.Printf("Total: $%.2f\n", snap.Cart.TotalAmount)
	for _, e := range snap.OutOfStock {
		fmt.Printf("!! %s: requested %d, only %d available\n", e.Name, e.Requested, e.Available)
	}
	if snap.CheckoutEligible() {
		fmt.Println("Checkout: ready")
	} else {
		fmt.Println("Checkout: blocked")
	}
}

func printOutOfStockNotice(entries []api.OutOfStockEntry) {
	fmt.Println("==============================================")
	fmt.Println("Some items in your cart are no longer available:")
	for _, e := range entries {
		fmt.Printf("  %s: requested %d, only %d available\n", e.Name, e.Requested, e.Available)
	}
	fmt.Println("Adjust quantities before checking out.")
	fmt.Println("==============================================")
}
