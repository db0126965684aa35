package api

import (
	"context"
	"net/http"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) ListOrders(ctx context.Context) ([]Order, error) {
	var out struct {
		Data []Order `json:"data"`
	}
	if err := oc.c.DoJSON(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
