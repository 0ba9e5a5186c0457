// Package cart mirrors the server-side cart's aggregate quantity so the
// badge count stays correct without a fetch per render. The server is
// authoritative: every local count comes from a server item list, never
// from local arithmetic.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopvine/storefront/internal/gateway"
	"github.com/shopvine/storefront/internal/state"
	"github.com/shopvine/storefront/types"
)

// ErrNotAuthenticated is returned when a cart mutation is attempted
// without a token. This is a precondition violation, not a silent no-op.
var ErrNotAuthenticated = errors.New("cart: not authenticated")

// Gateway is the slice of backend operations the synchronizer needs.
type Gateway interface {
	GetCart(ctx context.Context, token string) ([]types.CartItem, error)
	AddToCart(ctx context.Context, token, productID string, quantity int) ([]types.CartItem, error)
	UpdateCartItem(ctx context.Context, token, productID string, quantity int) ([]types.CartItem, error)
	RemoveCartItem(ctx context.Context, token, productID string) ([]types.CartItem, error)
	ClearCart(ctx context.Context, token string) ([]types.CartItem, error)
}

// SessionInvalidator is implemented by the session store; an authorization
// failure on any cart call routes through it so no view keeps showing
// authenticated affordances against a dead token.
type SessionInvalidator interface {
	Expire(ctx context.Context)
}

// Synchronizer keeps the cart count mirror. Operations are sequence-
// numbered at start; a response only lands if no later-started operation
// has landed already, so a stale refresh can never overwrite the count
// produced by a newer mutation.
type Synchronizer struct {
	state   *state.State
	gw      Gateway
	session SessionInvalidator

	mu      sync.Mutex
	seq     uint64
	applied uint64
}

func New(st *state.State, gw Gateway, session SessionInvalidator) *Synchronizer {
	return &Synchronizer{state: st, gw: gw, session: session}
}

func (c *Synchronizer) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// apply lands a count for the operation with the given sequence number.
// Out-of-order responses and responses for an abandoned context are
// discarded.
func (c *Synchronizer) apply(ctx context.Context, seq uint64, count int) {
	if ctx != nil && ctx.Err() != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		return
	}
	c.applied = seq
	c.state.SetCartCount(count)
}

// Refresh recomputes the count from the authoritative item list. Without
// a token, or for the admin role, the count is zero and no request is
// made.
func (c *Synchronizer) Refresh(ctx context.Context) error {
	seq := c.begin()

	token := c.state.Token()
	if token == "" || c.state.IsAdmin() {
		c.apply(ctx, seq, 0)
		return nil
	}

	items, err := c.gw.GetCart(ctx, token)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			c.session.Expire(ctx)
		}
		return err
	}
	c.apply(ctx, seq, types.QuantitySum(items))
	return nil
}

// Add puts quantity units of a product into the cart.
func (c *Synchronizer) Add(ctx context.Context, productID string, quantity int) error {
	return c.mutate(ctx, func(token string) ([]types.CartItem, error) {
		return c.gw.AddToCart(ctx, token, productID, quantity)
	})
}

// UpdateQuantity sets a product's quantity.
func (c *Synchronizer) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return c.mutate(ctx, func(token string) ([]types.CartItem, error) {
		return c.gw.UpdateCartItem(ctx, token, productID, quantity)
	})
}

// Remove deletes a product from the cart.
func (c *Synchronizer) Remove(ctx context.Context, productID string) error {
	return c.mutate(ctx, func(token string) ([]types.CartItem, error) {
		return c.gw.RemoveCartItem(ctx, token, productID)
	})
}

// Clear empties the cart.
func (c *Synchronizer) Clear(ctx context.Context) error {
	return c.mutate(ctx, func(token string) ([]types.CartItem, error) {
		return c.gw.ClearCart(ctx, token)
	})
}

// Items fetches the full item list for the cart view. The count mirror is
// updated as a side effect, same sequencing rules as Refresh.
func (c *Synchronizer) Items(ctx context.Context) ([]types.CartItem, error) {
	token := c.state.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	seq := c.begin()
	items, err := c.gw.GetCart(ctx, token)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			c.session.Expire(ctx)
		}
		return nil, err
	}
	c.apply(ctx, seq, types.QuantitySum(items))
	return items, nil
}

func (c *Synchronizer) mutate(ctx context.Context, op func(token string) ([]types.CartItem, error)) error {
	token := c.state.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	seq := c.begin()
	items, err := op(token)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			c.session.Expire(ctx)
		}
		return err
	}
	c.apply(ctx, seq, types.QuantitySum(items))
	return nil
}

// Reset zeroes the mirror and invalidates every in-flight operation.
// Called on logout and when the session switches to the admin role.
func (c *Synchronizer) Reset() {
	c.mu.Lock()
	c.seq++
	c.applied = c.seq
	c.mu.Unlock()
	c.state.SetCartCount(0)
}
