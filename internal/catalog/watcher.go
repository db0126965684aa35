// Package catalog polls a product listing and reports stock transitions so
// browsing screens stay reasonably fresh without a push channel.
package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-client-go/internal/api"
)

type Config struct {
	// Category narrows the poll to one category; empty polls everything.
	Category string

	// PollInterval defaults to 2s.
	PollInterval time.Duration

	Logger *zap.Logger

	// OnSoldOut fires when a product that had stock on the previous poll
	// now reports zero. Products that stay sold out do not re-fire.
	OnSoldOut func(api.Product)
}

type Watcher struct {
	catalog *api.CatalogClient
	cfg     Config
	logger  *zap.Logger

	mu       sync.Mutex
	products []api.Product
	lastErr  error
}

func NewWatcher(catalog *api.CatalogClient, cfg Config) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{catalog: catalog, cfg: cfg, logger: logger}
}

// Products returns the latest successfully fetched listing. A failed poll
// leaves the previous listing in place.
func (w *Watcher) Products() ([]api.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]api.Product, len(w.products))
	copy(out, w.products)
	return out, w.lastErr
}

func (w *Watcher) Refresh(ctx context.Context) error {
	var (
		products []api.Product
		err      error
	)
	if w.cfg.Category != "" {
		products, err = w.catalog.ProductsByCategory(ctx, w.cfg.Category)
	} else {
		products, err = w.catalog.ListProducts(ctx)
	}

	w.mu.Lock()
	if err != nil {
		w.lastErr = err
		w.mu.Unlock()
		w.logger.Warn("product refresh failed", zap.Error(err))
		return err
	}
	var soldOut []api.Product
	prev := make(map[string]int, len(w.products))
	for _, p := range w.products {
		prev[p.ID] = p.InStock
	}
	for _, p := range products {
		if stock, seen := prev[p.ID]; seen && stock > 0 && p.InStock == 0 {
			soldOut = append(soldOut, p)
		}
	}
	w.products = products
	w.lastErr = nil
	w.mu.Unlock()

	if w.cfg.OnSoldOut != nil {
		for _, p := range soldOut {
			w.cfg.OnSoldOut(p)
		}
	}
	return nil
}

// Run polls until ctx is cancelled, starting with an immediate refresh.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Refresh(ctx); err != nil {
		w.logger.Debug("initial product refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("product watcher stopped")
			return nil
		case <-ticker.C:
			_ = w.Refresh(ctx)
		}
	}
}

// Start launches Run in a goroutine; the returned stop is idempotent and
// waits for the loop to exit.
func (w *Watcher) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
