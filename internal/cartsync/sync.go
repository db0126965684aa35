// Package cartsync keeps an in-memory cart view reconciled against the
// storefront API: it polls the cart resource, preserves quantities the user
// is mid-edit on, derives the out-of-stock set on every refresh and gates
// checkout on cart validity.
package cartsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/storefront-client-go/internal/api"
)

var (
	ErrItemNotFound    = errors.New("cartsync: item not in cart")
	ErrCheckoutBlocked = errors.New("cartsync: cart is empty or has out-of-stock items")
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

type QuantityStatus int

const (
	// StatusConfirmed means the value matches the last server response.
	StatusConfirmed QuantityStatus = iota
	// StatusPending means the value is an optimistic local edit that has
	// not been confirmed by the server yet.
	StatusPending
)

// PendingQuantity is the tagged per-item edit value. Refreshes overwrite
// confirmed values with server truth and leave pending edits alone.
type PendingQuantity struct {
	Status QuantityStatus
	Value  int
}

type Config struct {
	// PollInterval drives the periodic refresh. Defaults to 3s.
	PollInterval time.Duration

	Logger *zap.Logger

	// OnOutOfStock fires only when the out-of-stock set gained an entry or
	// an entry's available quantity dropped, and always after a checkout
	// was rejected for stock reasons. Repeated identical state stays quiet.
	OnOutOfStock func([]api.OutOfStockEntry)

	// OnOrderPlaced fires after a successful checkout.
	OnOrderPlaced func(orderID string)

	// OnRefresh fires after every completed refresh (success or failure),
	// with the resulting snapshot. Stale responses that were dropped do
	// not fire it.
	OnRefresh func(Snapshot)
}

// Synchronizer reconciles local cart state against the server. All methods
// are safe for concurrent use; cart-mutating calls are serialized so only
// one mutation is in flight at a time.
type Synchronizer struct {
	cart   *api.CartClient
	cfg    Config
	logger *zap.Logger

	// mutMu sequences update/remove/checkout requests.
	mutMu sync.Mutex

	mu         sync.Mutex
	state      State
	snapshot   api.Cart
	pending    map[string]PendingQuantity
	outOfStock []api.OutOfStockEntry
	lastErr    error
	gen        uint64 // issued refresh generation
	appliedGen uint64 // generation of the newest applied response
}

func New(cart *api.CartClient, cfg Config) *Synchronizer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		cart:    cart,
		cfg:     cfg,
		logger:  logger,
		state:   StateIdle,
		pending: map[string]PendingQuantity{},
	}
}

// Snapshot is a read-only copy of the synchronizer state for rendering.
type Snapshot struct {
	State      State
	Cart       api.Cart
	Pending    map[string]PendingQuantity
	OutOfStock []api.OutOfStockEntry
	Err        error
}

// CheckoutEligible is recomputed from the snapshot on every call, never
// cached.
func (sn Snapshot) CheckoutEligible() bool {
	return IsCheckoutEligible(sn.Cart, sn.OutOfStock)
}

// Quantity returns the value to display for an item: the pending edit when
// one exists, otherwise the server-confirmed quantity.
func (sn Snapshot) Quantity(productID string) int {
	if p, ok := sn.Pending[productID]; ok {
		return p.Value
	}
	for _, it := range sn.Cart.Items {
		if it.Product.ID == productID {
			return it.Quantity
		}
	}
	return 0
}

func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	items := make([]api.CartItem, len(s.snapshot.Items))
	copy(items, s.snapshot.Items)
	pending := make(map[string]PendingQuantity, len(s.pending))
	for k, v := range s.pending {
		pending[k] = v
	}
	oos := make([]api.OutOfStockEntry, len(s.outOfStock))
	copy(oos, s.outOfStock)
	return Snapshot{
		State:      s.state,
		Cart:       api.Cart{Items: items, TotalAmount: s.snapshot.TotalAmount},
		Pending:    pending,
		OutOfStock: oos,
		Err:        s.lastErr,
	}
}

// Refresh fetches the cart and applies it. On failure the prior cart stays
// visible (stale-but-available); only the state and error change. Responses
// that lost the race against a newer applied response are dropped.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	cart, err := s.cart.GetCart(ctx)
	return s.finishRefresh(gen, cart, err)
}

func (s *Synchronizer) finishRefresh(gen uint64, cart api.Cart, err error) error {
	var notify []api.OutOfStockEntry

	s.mu.Lock()
	if gen < s.appliedGen {
		// A newer response has already been applied.
		applied := s.appliedGen
		s.mu.Unlock()
		s.logger.Debug("dropping stale cart response",
			zap.Uint64("generation", gen),
			zap.Uint64("applied", applied))
		return nil
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
	} else {
		notify = s.applyLocked(cart, gen)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("cart refresh failed", zap.Error(err))
	}
	if notify != nil && s.cfg.OnOutOfStock != nil {
		s.cfg.OnOutOfStock(notify)
	}
	if s.cfg.OnRefresh != nil {
		s.cfg.OnRefresh(snap)
	}
	return err
}

// applyLocked replaces the cart wholesale, reconciles pending edits and
// re-derives the out-of-stock set. Returns the new set when it should
// interrupt the user, nil otherwise.
func (s *Synchronizer) applyLocked(cart api.Cart, gen uint64) []api.OutOfStockEntry {
	s.snapshot = cart
	s.appliedGen = gen
	s.state = StateReady
	s.lastErr = nil

	next := make(map[string]PendingQuantity, len(cart.Items))
	for _, it := range cart.Items {
		if p, ok := s.pending[it.Product.ID]; ok && p.Status == StatusPending {
			next[it.Product.ID] = p
			continue
		}
		next[it.Product.ID] = PendingQuantity{Status: StatusConfirmed, Value: it.Quantity}
	}
	s.pending = next

	previous := s.outOfStock
	s.outOfStock = ComputeOutOfStock(cart.Items)
	if DetectNewOutOfStock(previous, s.outOfStock) {
		return s.outOfStock
	}
	return nil
}

// AdjustQuantity applies a delta to an item's pending quantity, clamped to
// [1, stock]. The new value shows immediately (optimistic) while the server
// update is in flight; the server response then becomes the source of
// truth. A failed update rolls the pending value back to the last confirmed
// quantity.
func (s *Synchronizer) AdjustQuantity(ctx context.Context, productID string, delta int) error {
	s.mu.Lock()
	var item *api.CartItem
	for i := range s.snapshot.Items {
		if s.snapshot.Items[i].Product.ID == productID {
			item = &s.snapshot.Items[i]
			break
		}
	}
	if item == nil {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	current := item.Quantity
	if p, ok := s.pending[productID]; ok {
		current = p.Value
	}
	confirmed := item.Quantity
	candidate := ClampQuantity(current+delta, item.Product.InStock)
	if candidate == current {
		s.mu.Unlock()
		return nil
	}
	s.pending[productID] = PendingQuantity{Status: StatusPending, Value: candidate}
	s.mu.Unlock()

	s.mutMu.Lock()
	updated, err := s.cart.UpdateItem(ctx, productID, candidate)
	s.mutMu.Unlock()

	var notify []api.OutOfStockEntry
	s.mu.Lock()
	if err != nil {
		s.pending[productID] = PendingQuantity{Status: StatusConfirmed, Value: confirmed}
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("quantity update failed, rolled back",
			zap.String("product", productID), zap.Error(err))
		return err
	}
	s.gen++
	delete(s.pending, productID) // confirm: let the response set it
	notify = s.applyLocked(updated, s.gen)
	s.mu.Unlock()

	if notify != nil && s.cfg.OnOutOfStock != nil {
		s.cfg.OnOutOfStock(notify)
	}
	return nil
}

// RemoveItem deletes a cart line, then forces a full refresh regardless of
// the delete's own response so the displayed list and total always come
// from server state rather than a local splice.
func (s *Synchronizer) RemoveItem(ctx context.Context, productID string) error {
	s.mutMu.Lock()
	delErr := s.cart.RemoveItem(ctx, productID)
	s.mutMu.Unlock()

	s.mu.Lock()
	delete(s.pending, productID)
	if delErr != nil {
		s.lastErr = delErr
	}
	s.mu.Unlock()

	refreshErr := s.Refresh(ctx)
	if delErr != nil {
		return delErr
	}
	return refreshErr
}

// Checkout places an order from the current cart. Outcomes:
//   - success: OnOrderPlaced fires, then a refresh picks up the emptied cart;
//   - rejected for stock: the server's outOfStockItems payload replaces the
//     locally computed set and the interruptive notice is forced open;
//   - anything else: the error is surfaced, cart state unchanged.
func (s *Synchronizer) Checkout(ctx context.Context) (string, error) {
	s.mu.Lock()
	eligible := IsCheckoutEligible(s.snapshot, s.outOfStock)
	s.mu.Unlock()
	if !eligible {
		return "", ErrCheckoutBlocked
	}

	s.mutMu.Lock()
	res, err := s.cart.Checkout(ctx)
	s.mutMu.Unlock()

	if err != nil {
		var oos *api.OutOfStockError
		if errors.As(err, &oos) {
			// The server is the final arbiter at commit time.
			s.mu.Lock()
			s.outOfStock = oos.Items
			s.mu.Unlock()
			s.logger.Info("checkout rejected for stock",
				zap.Int("items", len(oos.Items)))
			if s.cfg.OnOutOfStock != nil {
				s.cfg.OnOutOfStock(oos.Items)
			}
			return "", err
		}
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("checkout failed", zap.Error(err))
		return "", err
	}

	s.logger.Info("order placed", zap.String("orderID", res.OrderID))
	if s.cfg.OnOrderPlaced != nil {
		s.cfg.OnOrderPlaced(res.OrderID)
	}
	if err := s.Refresh(ctx); err != nil {
		return res.OrderID, nil // order went through; refresh retries on next tick
	}
	return res.OrderID, nil
}
