package api

import (
	"context"
	"net/http"
)

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

// productList is the {data: [...]} envelope the catalog endpoints use.
type productList struct {
	Data []Product `json:"data"`
}

func (cc *CatalogClient) ListProducts(ctx context.Context) ([]Product, error) {
	var out productList
	if err := cc.c.DoJSON(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (cc *CatalogClient) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	var out productList
	// The raw category goes into url.URL.Path, which handles encoding;
	// pre-escaping here would get escaped a second time.
	path := "/products/category/" + category
	if err := cc.c.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
