package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

func (cc *CartClient) GetCart(ctx context.Context) (Cart, error) {
	var cart Cart
	err := cc.c.DoJSON(ctx, http.MethodGet, "/cart", nil, &cart)
	return cart, err
}

// UpdateItem sets the requested quantity for a cart line and returns the
// updated cart, which is the new source of truth.
func (cc *CartClient) UpdateItem(ctx context.Context, productID string, quantity int) (Cart, error) {
	var cart Cart
	err := cc.c.DoJSON(ctx, http.MethodPut, "/cart/"+productID, UpdateItemRequest{Quantity: quantity}, &cart)
	return cart, err
}

// RemoveItem deletes a cart line. The response body is intentionally
// discarded; callers re-fetch the cart to get a consistent view.
func (cc *CartClient) RemoveItem(ctx context.Context, productID string) error {
	return cc.c.DoJSON(ctx, http.MethodDelete, "/cart/"+productID, nil, nil)
}

// AddItem puts quantity units of a product in the cart. A 400 response
// carrying an availableStock figure becomes a *StockExceededError.
func (cc *CartClient) AddItem(ctx context.Context, productID string, quantity int) (Cart, error) {
	resp, err := cc.c.Do(ctx, http.MethodPost, "/cart/add", AddItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return Cart{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		var rejection struct {
			Message        string `json:"message"`
			AvailableStock *int   `json:"availableStock"`
		}
		if err := json.Unmarshal(raw, &rejection); err == nil && rejection.AvailableStock != nil {
			return Cart{}, &StockExceededError{Available: *rejection.AvailableStock}
		}
		msg := rejection.Message
		if msg == "" {
			msg = string(raw)
		}
		return Cart{}, &StatusError{Service: cc.c.Name, StatusCode: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Cart{}, cc.c.statusError(resp)
	}

	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

func (cc *CartClient) Count(ctx context.Context) (int, error) {
	var out CartCountResponse
	if err := cc.c.DoJSON(ctx, http.MethodGet, "/cart/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Checkout places an order from the current cart. A 400 response with an
// outOfStockItems payload is the server's authoritative stock verdict and is
// returned as a *OutOfStockError; any other failure is generic.
func (cc *CartClient) Checkout(ctx context.Context) (CheckoutResponse, error) {
	resp, err := cc.c.Do(ctx, http.MethodPost, "/cart/checkout", nil)
	if err != nil {
		return CheckoutResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var rejection struct {
			OutOfStockItems []OutOfStockEntry `json:"outOfStockItems"`
		}
		if err := json.Unmarshal(raw, &rejection); err == nil && len(rejection.OutOfStockItems) > 0 {
			return CheckoutResponse{}, &OutOfStockError{Items: rejection.OutOfStockItems}
		}
		return CheckoutResponse{}, &StatusError{Service: cc.c.Name, StatusCode: resp.StatusCode, Message: string(raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CheckoutResponse{}, cc.c.statusError(resp)
	}

	var out CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return CheckoutResponse{}, err
	}
	return out, nil
}
