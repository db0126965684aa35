package stubapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andreasstove999/storefront-client-go/internal/api"
)

type env struct {
	t     *testing.T
	store *Store
	srv   *httptest.Server
	token string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := NewStore()
	store.Seed([]api.Product{
		{ID: "p1", Name: "Apples", Category: "fruit", Price: 2.5, InStock: 5},
		{ID: "p2", Name: "Milk", Category: "dairy", Price: 1.2, InStock: 3},
	})
	srv := httptest.NewServer(NewRouter(NewHandler(store)))
	t.Cleanup(srv.Close)

	e := &env{t: t, store: store, srv: srv}
	e.do(http.MethodPost, "/api/auth/register", api.RegisterRequest{
		Name: "Test User", Email: "user@example.com", Password: "pw",
	}, http.StatusCreated, nil)

	var tok api.TokenResponse
	e.do(http.MethodPost, "/api/auth/login", api.Credentials{
		Email: "user@example.com", Password: "pw",
	}, http.StatusOK, &tok)
	if tok.Token == "" {
		t.Fatal("login returned empty token")
	}
	e.token = tok.Token
	return e
}

// do issues a request, asserts the status and decodes the body into out.
func (e *env) do(method, path string, body any, wantStatus int, out any) {
	e.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		e.t.Fatalf("build request: %v", err)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.srv.Client().Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		e.t.Fatalf("%s %s: status = %d, want %d", method, path, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			e.t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
}

func TestCartRequiresAuth(t *testing.T) {
	e := newEnv(t)
	e.token = ""
	e.do(http.MethodGet, "/api/cart", nil, http.StatusUnauthorized, nil)
}

func TestAddUpdateRemoveFlow(t *testing.T) {
	e := newEnv(t)

	var cart api.Cart
	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p1", Quantity: 2}, http.StatusOK, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("cart after add = %+v", cart.Items)
	}
	if cart.TotalAmount != 5.0 {
		t.Fatalf("total = %v, want 5.0", cart.TotalAmount)
	}

	e.do(http.MethodPut, "/api/cart/p1", api.UpdateItemRequest{Quantity: 4}, http.StatusOK, &cart)
	if cart.Items[0].Quantity != 4 {
		t.Fatalf("quantity after update = %d, want 4", cart.Items[0].Quantity)
	}

	e.do(http.MethodDelete, "/api/cart/p1", nil, http.StatusOK, nil)
	e.do(http.MethodGet, "/api/cart", nil, http.StatusOK, &cart)
	if len(cart.Items) != 0 {
		t.Fatalf("cart after remove = %+v", cart.Items)
	}
}

func TestAddItemRejectsOverStock(t *testing.T) {
	e := newEnv(t)

	var rejection struct {
		Message        string `json:"message"`
		AvailableStock int    `json:"availableStock"`
	}
	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p2", Quantity: 10}, http.StatusBadRequest, &rejection)
	if rejection.AvailableStock != 3 {
		t.Fatalf("availableStock = %d, want 3", rejection.AvailableStock)
	}
}

func TestUpdateItemAcceptsOverStock(t *testing.T) {
	// Stock is enforced at checkout time, not on quantity updates. That is
	// what lets a cart drift out of stock between polls.
	e := newEnv(t)

	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p2", Quantity: 1}, http.StatusOK, nil)

	var cart api.Cart
	e.do(http.MethodPut, "/api/cart/p2", api.UpdateItemRequest{Quantity: 50}, http.StatusOK, &cart)
	if cart.Items[0].Quantity != 50 {
		t.Fatalf("quantity = %d, want 50", cart.Items[0].Quantity)
	}
}

func TestCheckoutRejectsWhenStockDrained(t *testing.T) {
	e := newEnv(t)

	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p1", Quantity: 4}, http.StatusOK, nil)
	e.do(http.MethodPost, "/api/admin/stock", map[string]any{"productId": "p1", "inStock": 2}, http.StatusOK, nil)

	var rejection struct {
		OutOfStockItems []api.OutOfStockEntry `json:"outOfStockItems"`
	}
	e.do(http.MethodPost, "/api/cart/checkout", nil, http.StatusBadRequest, &rejection)
	if len(rejection.OutOfStockItems) != 1 {
		t.Fatalf("outOfStockItems = %+v", rejection.OutOfStockItems)
	}
	got := rejection.OutOfStockItems[0]
	want := api.OutOfStockEntry{ProductID: "p1", Name: "Apples", Requested: 4, Available: 2}
	if got != want {
		t.Fatalf("entry = %+v, want %+v", got, want)
	}
}

func TestCheckoutDecrementsStockAndClearsCart(t *testing.T) {
	e := newEnv(t)

	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p1", Quantity: 3}, http.StatusOK, nil)

	var res api.CheckoutResponse
	e.do(http.MethodPost, "/api/cart/checkout", nil, http.StatusOK, &res)
	if res.OrderID == "" {
		t.Fatal("checkout returned empty order id")
	}

	var cart api.Cart
	e.do(http.MethodGet, "/api/cart", nil, http.StatusOK, &cart)
	if len(cart.Items) != 0 {
		t.Fatalf("cart after checkout = %+v", cart.Items)
	}

	products := e.store.Products("")
	if products[0].InStock != 2 {
		t.Fatalf("stock after checkout = %d, want 2", products[0].InStock)
	}

	var orders struct {
		Data []api.Order `json:"data"`
	}
	e.do(http.MethodGet, "/api/orders", nil, http.StatusOK, &orders)
	if len(orders.Data) != 1 || orders.Data[0].OrderID != res.OrderID {
		t.Fatalf("orders = %+v", orders.Data)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/api/cart/checkout", nil, http.StatusBadRequest, nil)
}

func TestProductsByCategory(t *testing.T) {
	e := newEnv(t)

	var out struct {
		Data []api.Product `json:"data"`
	}
	e.do(http.MethodGet, "/api/products/category/fruit", nil, http.StatusOK, &out)
	if len(out.Data) != 1 || out.Data[0].ID != "p1" {
		t.Fatalf("category listing = %+v", out.Data)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/api/auth/register", api.RegisterRequest{
		Name: "Again", Email: "user@example.com", Password: "pw",
	}, http.StatusConflict, nil)
}

func TestCartCount(t *testing.T) {
	e := newEnv(t)

	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p1", Quantity: 2}, http.StatusOK, nil)
	e.do(http.MethodPost, "/api/cart/add", api.AddItemRequest{ProductID: "p2", Quantity: 1}, http.StatusOK, nil)

	var out api.CartCountResponse
	e.do(http.MethodGet, "/api/cart/count", nil, http.StatusOK, &out)
	if out.Count != 3 {
		t.Fatalf("count = %d, want 3", out.Count)
	}
}
