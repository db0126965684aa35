//go:build integration

package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/storefront-client-go/internal/api"
	"github.com/andreasstove999/storefront-client-go/internal/cartsync"
	"github.com/andreasstove999/storefront-client-go/internal/session"
	"github.com/andreasstove999/storefront-client-go/internal/stubapi"
)

// TestCartLifecycle drives the full client flow against an in-process stub
// server: register, log in, build a cart, watch stock drain underneath it,
// get rejected at checkout, fix the cart and check out for real.
func TestCartLifecycle(t *testing.T) {
	ctx := context.Background()

	store := stubapi.NewStore()
	store.Seed([]api.Product{
		{ID: "p1", Name: "Apples", Category: "fruit", Price: 2.5, InStock: 10},
		{ID: "p2", Name: "Milk", Category: "dairy", Price: 1.2, InStock: 3},
	})
	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewHandler(store)))
	t.Cleanup(srv.Close)

	tokens := session.NewMemoryStore()
	base := api.NewClient("storefront-api", srv.URL+"/api", srv.Client(), tokens)
	auth := api.NewAuthClient(base)
	cart := api.NewCartClient(base)
	orders := api.NewOrderClient(base)

	require.NoError(t, auth.Register(ctx, "Integration User", "it@example.com", "pw"))
	token, err := auth.Login(ctx, "it@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, tokens.SetToken(token))

	_, err = cart.AddItem(ctx, "p1", 4)
	require.NoError(t, err)

	var notices [][]api.OutOfStockEntry
	s := cartsync.New(cart, cartsync.Config{
		PollInterval: 50 * time.Millisecond,
		OnOutOfStock: func(entries []api.OutOfStockEntry) { notices = append(notices, entries) },
	})

	require.NoError(t, s.Refresh(ctx))
	snap := s.Snapshot()
	require.Equal(t, cartsync.StateReady, snap.State)
	assert.Equal(t, 4, snap.Quantity("p1"))
	assert.True(t, snap.CheckoutEligible())

	// Another buyer drains the shelf.
	require.NoError(t, store.SetStock("p1", 2))
	require.NoError(t, s.Refresh(ctx))

	snap = s.Snapshot()
	require.Len(t, snap.OutOfStock, 1)
	assert.Equal(t, api.OutOfStockEntry{ProductID: "p1", Name: "Apples", Requested: 4, Available: 2}, snap.OutOfStock[0])
	assert.False(t, snap.CheckoutEligible())
	require.Len(t, notices, 1)

	// The local gate blocks checkout before a request goes out.
	_, err = s.Checkout(ctx)
	require.ErrorIs(t, err, cartsync.ErrCheckoutBlocked)

	// Dropping the quantity to what's on the shelf clears the block. The
	// clamp works against the refreshed stock figure.
	require.NoError(t, s.AdjustQuantity(ctx, "p1", -2))
	snap = s.Snapshot()
	assert.Equal(t, 2, snap.Quantity("p1"))
	assert.Empty(t, snap.OutOfStock)
	require.True(t, snap.CheckoutEligible())

	orderID, err := s.Checkout(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	snap = s.Snapshot()
	assert.Empty(t, snap.Cart.Items, "checkout clears the cart")

	placed, err := orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, orderID, placed[0].OrderID)
	assert.Equal(t, 5.0, placed[0].TotalAmount)
}

// TestServerSideCheckoutRejection skips the local gate by draining stock
// after the last refresh, so the server's 400 is what stops the order.
func TestServerSideCheckoutRejection(t *testing.T) {
	ctx := context.Background()

	store := stubapi.NewStore()
	store.Seed([]api.Product{{ID: "p1", Name: "Apples", Price: 2.5, InStock: 10}})
	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewHandler(store)))
	t.Cleanup(srv.Close)

	tokens := session.NewMemoryStore()
	base := api.NewClient("storefront-api", srv.URL+"/api", srv.Client(), tokens)
	auth := api.NewAuthClient(base)
	cart := api.NewCartClient(base)

	require.NoError(t, auth.Register(ctx, "Integration User", "it2@example.com", "pw"))
	token, err := auth.Login(ctx, "it2@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, tokens.SetToken(token))

	_, err = cart.AddItem(ctx, "p1", 4)
	require.NoError(t, err)

	var notices [][]api.OutOfStockEntry
	s := cartsync.New(cart, cartsync.Config{
		OnOutOfStock: func(entries []api.OutOfStockEntry) { notices = append(notices, entries) },
	})
	require.NoError(t, s.Refresh(ctx))
	require.True(t, s.Snapshot().CheckoutEligible())

	// Stock moves between the poll and the checkout click.
	require.NoError(t, store.SetStock("p1", 1))

	_, err = s.Checkout(ctx)
	var oos *api.OutOfStockError
	require.ErrorAs(t, err, &oos)
	require.Len(t, oos.Items, 1)
	assert.Equal(t, 1, oos.Items[0].Available)

	// The server verdict replaced the local set and forced the notice.
	snap := s.Snapshot()
	require.Len(t, snap.OutOfStock, 1)
	assert.False(t, snap.CheckoutEligible())
	require.Len(t, notices, 1)
}

// TestPollerPicksUpRemoteChanges runs the background loop for real.
func TestPollerPicksUpRemoteChanges(t *testing.T) {
	ctx := context.Background()

	store := stubapi.NewStore()
	store.Seed([]api.Product{{ID: "p1", Name: "Apples", Price: 2.5, InStock: 10}})
	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewHandler(store)))
	t.Cleanup(srv.Close)

	tokens := session.NewMemoryStore()
	base := api.NewClient("storefront-api", srv.URL+"/api", srv.Client(), tokens)
	auth := api.NewAuthClient(base)
	cart := api.NewCartClient(base)

	require.NoError(t, auth.Register(ctx, "Integration User", "it3@example.com", "pw"))
	token, err := auth.Login(ctx, "it3@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, tokens.SetToken(token))

	_, err = cart.AddItem(ctx, "p1", 5)
	require.NoError(t, err)

	s := cartsync.New(cart, cartsync.Config{PollInterval: 20 * time.Millisecond})
	stop := s.Start(ctx)
	defer stop()

	require.Eventually(t, func() bool {
		return s.Snapshot().State == cartsync.StateReady
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, store.SetStock("p1", 3))

	require.Eventually(t, func() bool {
		return len(s.Snapshot().OutOfStock) == 1
	}, 2*time.Second, 10*time.Millisecond, "poll should surface the stock drop")
}
