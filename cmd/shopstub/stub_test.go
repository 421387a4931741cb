package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopforge/storefront/internal/apperr"
	"github.com/shopforge/storefront/internal/auth"
	"github.com/shopforge/storefront/internal/cart"
	"github.com/shopforge/storefront/internal/catalog"
	"github.com/shopforge/storefront/internal/gateway"
	"github.com/shopforge/storefront/internal/logging"
	"github.com/shopforge/storefront/internal/session"
)

type clientStack struct {
	store   *session.Store
	auth    *auth.Controller
	cart    *cart.Controller
	catalog *catalog.Client
	lost    *int
}

func newStack(t *testing.T) (*clientStack, func()) {
	t.Helper()
	srv := &server{
		store:       newMemoryStore(),
		jwtSecret:   []byte("test-secret"),
		tokenTTL:    time.Hour,
		adminEmails: parseCSVSet("root@example.com"),
		log:         logging.Discard(),
	}
	ts := httptest.NewServer(srv.router())

	store := session.NewStore(session.NewMemStore())
	lost := 0
	gw, err := gateway.New(gateway.Config{
		BaseURL: ts.URL + "/api",
		Tokens:  store,
		OnSessionInvalidated: func() {
			store.Clear()
			lost++
		},
	})
	require.NoError(t, err)

	confirm := cart.ConfirmerFunc(func(string) bool { return true })
	return &clientStack{
		store:   store,
		auth:    auth.New(gw, store, nil),
		cart:    cart.New(gw, confirm, nil),
		catalog: catalog.New(gw),
		lost:    &lost,
	}, ts.Close
}

func TestEndToEnd_ShoppingFlow(t *testing.T) {
	c, done := newStack(t)
	defer done()
	ctx := context.Background()

	// Register and land authenticated.
	sess, err := c.auth.Register(ctx, "Casey Shopper", "casey@example.com", "hunter22", "hunter22")
	require.NoError(t, err)
	assert.Contains(t, sess.Roles, "customer")
	assert.NotContains(t, sess.Roles, "admin")
	require.True(t, c.store.IsAuthenticated())

	// The catalog is public and seeded.
	data, err := c.catalog.Storefront(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, data.Products)
	require.NotEmpty(t, data.Categories)

	// Add two thermometers; the server does all the math.
	require.NoError(t, c.cart.Add(ctx, 1, 2))
	snap, loaded := c.cart.Snapshot()
	require.True(t, loaded)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.ItemCount)
	assert.InDelta(t, 25.98, snap.TotalPrice, 0.001)
	assert.InDelta(t, 25.98, snap.Items[0].Subtotal, 0.001)

	// Bump the quantity and observe the server's new totals.
	require.NoError(t, c.cart.UpdateQuantity(ctx, snap.Items[0].ID, 3))
	snap, _ = c.cart.Snapshot()
	assert.Equal(t, 3, snap.ItemCount)
	assert.InDelta(t, 38.97, snap.TotalPrice, 0.001)

	// Checkout empties the cart and creates an order.
	orderID, err := c.cart.Checkout(ctx)
	require.NoError(t, err)
	assert.NotZero(t, orderID)

	snap, _ = c.cart.Snapshot()
	assert.Empty(t, snap.Items)

	orders, err := c.catalog.Orders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders.Orders, 1)
	assert.Equal(t, orderID, orders.Orders[0].ID)
	assert.InDelta(t, 38.97, orders.Orders[0].TotalAmount, 0.001)
	assert.Equal(t, "pending", orders.Orders[0].Status)
}

func TestEndToEnd_DomainRefusals(t *testing.T) {
	c, done := newStack(t)
	defer done()
	ctx := context.Background()

	_, err := c.auth.Register(ctx, "Casey", "casey@example.com", "hunter22", "hunter22")
	require.NoError(t, err)

	// More than the monitor's stock of 15.
	err = c.cart.Add(ctx, 2, 99)
	require.Error(t, err)
	assert.True(t, apperr.IsDomain(err))
	assert.Contains(t, err.Error(), "insufficient stock")

	// Product 6 is inactive.
	err = c.cart.Add(ctx, 6, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsDomain(err))

	// Out-of-stock cane.
	err = c.cart.Add(ctx, 5, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsDomain(err))
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	c, done := newStack(t)
	defer done()
	ctx := context.Background()

	_, err := c.auth.Register(ctx, "Casey", "casey@example.com", "hunter22", "hunter22")
	require.NoError(t, err)

	_, err = c.auth.Register(ctx, "Casey Again", "casey@example.com", "hunter22", "hunter22")
	require.Error(t, err)
	assert.True(t, apperr.IsDomain(err))
}

func TestEndToEnd_LoginAndAdminRole(t *testing.T) {
	c, done := newStack(t)
	defer done()
	ctx := context.Background()

	_, err := c.auth.Register(ctx, "Root", "root@example.com", "hunter22", "hunter22")
	require.NoError(t, err)
	c.auth.Logout()
	require.False(t, c.store.IsAuthenticated())

	sess, err := c.auth.Login(ctx, "root@example.com", "hunter22")
	require.NoError(t, err)
	assert.Contains(t, sess.Roles, "admin")
	assert.True(t, c.store.HasRole("admin"))

	_, err = c.auth.Login(ctx, "root@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestEndToEnd_InvalidTokenClearsSession(t *testing.T) {
	c, done := newStack(t)
	defer done()
	ctx := context.Background()

	// Forge an unverifiable session; the backend rejects it on first use.
	require.NoError(t, c.store.Set(session.Session{UserID: "u-x", Token: "garbage"}))

	err := c.cart.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, apperr.IsUnauthorized(err))
	assert.False(t, c.store.IsAuthenticated(), "401 must clear the session store")
	assert.Equal(t, 1, *c.lost)
}

func TestEndToEnd_CheckoutIdempotencyKey(t *testing.T) {
	srv := &server{
		store:       newMemoryStore(),
		jwtSecret:   []byte("test-secret"),
		tokenTTL:    time.Hour,
		adminEmails: map[string]struct{}{},
		log:         logging.Discard(),
	}
	ts := httptest.NewServer(srv.router())
	defer ts.Close()

	store := session.NewStore(nil)
	gw, err := gateway.New(gateway.Config{BaseURL: ts.URL + "/api", Tokens: store})
	require.NoError(t, err)

	ctrl := auth.New(gw, store, nil)
	_, err = ctrl.Register(context.Background(), "Casey", "c@example.com", "hunter22", "hunter22")
	require.NoError(t, err)

	cartCtrl := cart.New(gw, cart.ConfirmerFunc(func(string) bool { return true }), nil)
	require.NoError(t, cartCtrl.Add(context.Background(), 1, 1))

	// Replay the same key directly: the second submit returns the first
	// order instead of creating another.
	var first, second struct {
		OrderID int64 `json:"orderId"`
	}
	key := "replay-key-1"
	require.NoError(t, gw.Post(context.Background(), "/cart/checkout", struct{}{}, &first, gateway.WithHeader("X-Idempotency-Key", key)))
	require.NoError(t, gw.Post(context.Background(), "/cart/checkout", struct{}{}, &second, gateway.WithHeader("X-Idempotency-Key", key)))
	assert.Equal(t, first.OrderID, second.OrderID)
}
