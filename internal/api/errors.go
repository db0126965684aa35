package api

import (
	"fmt"
	"strings"
)

// StatusError is a non-2xx response without a distinguished payload.
type StatusError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Service, msg, e.StatusCode)
}

// OutOfStockError is the distinguished checkout rejection: HTTP 400 with an
// authoritative list of cart lines that exceed available stock.
type OutOfStockError struct {
	Items []OutOfStockEntry
}

func (e *OutOfStockError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		names = append(names, fmt.Sprintf("%s (requested %d, available %d)", it.Name, it.Requested, it.Available))
	}
	return "checkout rejected, out of stock: " + strings.Join(names, ", ")
}

// StockExceededError is returned by AddItem when the requested quantity
// exceeds the available stock for a single product.
type StockExceededError struct {
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("only %d items available in stock", e.Available)
}
