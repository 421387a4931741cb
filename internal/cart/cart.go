// Package cart mediates every cart mutation against the backend, which is
// the sole source of truth for prices, stock and totals.
//
// Each operation is one round-trip followed by a full refetch on success.
// The client never patches quantities or totals locally; after a failed
// mutation the last snapshot is deliberately left as-is, since a failure
// must not be assumed to have changed server state. Per item, at most one
// mutation is in flight at a time; a second request for a busy item is
// rejected outright, not queued.
package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/shopforge/storefront/internal/apperr"
	"github.com/shopforge/storefront/internal/gateway"
	"github.com/shopforge/storefront/internal/logging"
)

// Item is a cart line exactly as the backend reported it.
type Item struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
	ImageURL    string  `json:"imageUrl"`
}

// Snapshot is the last-fetched server state of the cart. ItemCount and
// TotalPrice are whatever the backend computed.
type Snapshot struct {
	Items      []Item  `json:"items"`
	ItemCount  int     `json:"itemCount"`
	TotalPrice float64 `json:"totalPrice"`
}

// Confirmer is the interactive yes/no gate for destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Rejections for conflicting concurrent submissions. These never reach the
// network.
var (
	ErrItemBusy     = apperr.Domain(http.StatusConflict, "another update for this item is still in progress")
	ErrCheckoutBusy = apperr.Domain(http.StatusConflict, "a checkout is already in progress")
	ErrEmptyCart    = apperr.Domain(http.StatusBadRequest, "your cart is empty")
)

// Controller owns the cart view model and is its only writer.
type Controller struct {
	gw      *gateway.Client
	confirm Confirmer
	log     *logging.Logger

	mu           sync.Mutex
	snap         Snapshot
	loaded       bool
	inFlight     map[int64]struct{}
	checkoutBusy bool
}

// New creates a cart controller.
func New(gw *gateway.Client, confirm Confirmer, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		gw:       gw,
		confirm:  confirm,
		log:      log,
		inFlight: make(map[int64]struct{}),
	}
}

// Snapshot returns the last-fetched cart and whether one has been fetched.
func (c *Controller) Snapshot() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap, c.loaded
}

// Updating reports whether a mutation for the given item is in flight.
func (c *Controller) Updating(itemID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inFlight[itemID]
	return busy
}

// Refresh refetches the full cart and replaces the snapshot.
func (c *Controller) Refresh(ctx context.Context) error {
	var snap Snapshot
	if err := c.gw.Get(ctx, "/cart", &snap); err != nil {
		return err
	}
	c.mu.Lock()
	c.snap = snap
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Discard drops the local snapshot, e.g. when navigating away from the cart
// view. The next Refresh starts from scratch.
func (c *Controller) Discard() {
	c.mu.Lock()
	c.snap = Snapshot{}
	c.loaded = false
	c.mu.Unlock()
}

// Add puts quantity units of a product into the cart. Stock and
// product-state checks are the backend's; a refusal comes back as a domain
// error. On success the snapshot is refetched.
func (c *Controller) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return apperr.Validation("quantity must be at least 1")
	}

	body := map[string]interface{}{"productId": productID, "quantity": quantity}
	if err := c.gw.Post(ctx, "/cart/items", body, nil); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// UpdateQuantity sets an item's quantity. A quantity below 1 is a removal
// and goes through the same confirmation gate as Remove.
func (c *Controller) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return c.Remove(ctx, itemID)
	}

	if err := c.begin(itemID); err != nil {
		return err
	}

	body := map[string]int{"quantity": quantity}
	err := c.gw.Put(ctx, fmt.Sprintf("/cart/items/%d", itemID), body, nil)
	c.end(itemID)
	if err != nil {
		// The stale snapshot stays; a failed mutation must not be assumed
		// to have changed server state.
		return err
	}
	return c.Refresh(ctx)
}

// Remove deletes an item after interactive confirmation. A declined
// confirmation is a no-op with no network call.
func (c *Controller) Remove(ctx context.Context, itemID int64) error {
	if c.confirm != nil && !c.confirm.Confirm("Are you sure you want to remove this item from your cart?") {
		return nil
	}

	if err := c.begin(itemID); err != nil {
		return err
	}

	err := c.gw.Delete(ctx, fmt.Sprintf("/cart/items/%d", itemID))
	c.end(itemID)
	if err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Checkout creates an order from the current cart and returns its ID. An
// empty snapshot fails fast with no network call. Each attempt carries a
// fresh idempotency key so a double-submit is server-deduplicable.
func (c *Controller) Checkout(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if len(c.snap.Items) == 0 {
		c.mu.Unlock()
		return 0, ErrEmptyCart
	}
	if c.checkoutBusy {
		c.mu.Unlock()
		return 0, ErrCheckoutBusy
	}
	c.checkoutBusy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.checkoutBusy = false
		c.mu.Unlock()
	}()

	var resp struct {
		OrderID int64 `json:"orderId"`
	}
	key := uuid.New().String()
	if err := c.gw.Post(ctx, "/cart/checkout", struct{}{}, &resp, gateway.WithHeader("X-Idempotency-Key", key)); err != nil {
		return 0, err
	}

	c.log.WithContext(ctx).WithField("order_id", resp.OrderID).Info("checkout complete")

	// The server emptied the cart; pick up its post-checkout state. Failure
	// here does not undo the order, so it is only logged.
	if err := c.Refresh(ctx); err != nil {
		c.log.WithContext(ctx).WithError(err).Warn("cart refresh after checkout failed")
	}
	return resp.OrderID, nil
}

// begin claims the per-item in-flight slot.
func (c *Controller) begin(itemID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[itemID]; busy {
		return ErrItemBusy
	}
	c.inFlight[itemID] = struct{}{}
	return nil
}

// end releases the slot whether the round-trip succeeded or not.
func (c *Controller) end(itemID int64) {
	c.mu.Lock()
	delete(c.inFlight, itemID)
	c.mu.Unlock()
}
