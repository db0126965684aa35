package stubapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/storefront-client-go/internal/api"
)

type ctxKey int

const ctxUser ctxKey = iota

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireAuth resolves the bearer token to a user and stashes it in the
// request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || token == auth {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		email, err := h.store.UserForToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUser, email)))
	})
}

func userFrom(r *http.Request) string {
	if v := r.Context().Value(ctxUser); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if err := h.store.Register(body.Name, body.Email, body.Password); err != nil {
		writeError(w, http.StatusConflict, "account already exists")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, err := h.store.Login(body.Email, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, api.TokenResponse{Token: token})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": h.store.Products("")})
}

func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	writeJSON(w, http.StatusOK, map[string]any{"data": h.store.Products(category)})
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Cart(userFrom(r)))
}

func (h *Handler) CartCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.CartCountResponse{Count: h.store.CartCount(userFrom(r))})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body api.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	cart, err := h.store.AddItem(userFrom(r), body.ProductID, body.Quantity)
	if err != nil {
		var exceeded *StockExceeded
		if errors.As(err, &exceeded) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message":        "requested quantity exceeds available stock",
				"availableStock": exceeded.Available,
			})
			return
		}
		if errors.Is(err, ErrUnknownProduct) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	var body api.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	cart, err := h.store.SetQuantity(userFrom(r), productID, body.Quantity)
	if err != nil {
		if errors.Is(err, ErrNotInCart) {
			writeError(w, http.StatusNotFound, "product not in cart")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if err := h.store.RemoveItem(userFrom(r), productID); err != nil {
		writeError(w, http.StatusNotFound, "product not in cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Checkout(userFrom(r))
	if err != nil {
		var oos *OutOfStock
		if errors.As(err, &oos) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"message":         "cart has out-of-stock items",
				"outOfStockItems": oos.Items,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, api.CheckoutResponse{OrderID: order.OrderID})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": h.store.Orders(userFrom(r))})
}

// AdjustStock lets demos and tests move inventory underneath live carts.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
		InStock   int    `json:"inStock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.store.SetStock(body.ProductID, body.InStock); err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "stock adjusted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
