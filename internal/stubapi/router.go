// Package stubapi is an in-memory stand-in for the remote storefront API.
// The CLI runs against it in demo mode and the integration tests use it as
// the server side of the synchronizer.
package stubapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/products", h.ListProducts)
		r.Get("/products/category/{category}", h.ProductsByCategory)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/cart", h.GetCart)
			r.Get("/cart/count", h.CartCount)
			r.Post("/cart/add", h.AddItem)
			r.Post("/cart/checkout", h.Checkout)
			r.Put("/cart/{productId}", h.UpdateItem)
			r.Delete("/cart/{productId}", h.RemoveItem)
			r.Get("/orders", h.ListOrders)
		})

		r.Post("/admin/stock", h.AdjustStock)
	})

	return r
}
