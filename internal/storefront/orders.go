package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
)

// Orders runs checkout and keeps the last fetched order history.
type Orders struct {
	app *App

	inFlight atomic.Bool

	mu      sync.RWMutex
	history []shopapi.Order
	last    *shopapi.Order
}

// Checkout turns the current server cart into an order. The cart is read
// fresh first; an empty cart fails with ErrEmptyCart before any order request
// is sent. Only one checkout runs at a time.
func (o *Orders) Checkout(ctx context.Context) (*shopapi.Order, error) {
	if !o.app.session.Authenticated() {
		return nil, o.app.fail("Checkout", ErrNotAuthenticated, nil)
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, o.app.fail("Checkout", ErrCheckoutInProgress, nil)
	}
	defer o.inFlight.Store(false)

	cart := o.app.cart
	if err := cart.refresh(ctx); err != nil {
		return nil, o.app.fail("Checkout", err, nil)
	}
	cartID, ok := cart.ID()
	if !ok || len(cart.Lines()) == 0 {
		return nil, o.app.fail("Checkout", ErrEmptyCart, nil)
	}

	token, epoch := o.app.session.snapshot()
	key := o.app.newKey()
	fields := map[string]interface{}{
		"cart_id":         cartID,
		"idempotency_key": key,
	}

	var (
		order *shopapi.Order
		err   error
	)
	for attempt := 0; attempt <= o.app.checkoutRetries; attempt++ {
		order, err = o.app.api.CreateOrder(ctx, token, cartID, key)
		if err == nil || !errors.Is(err, ErrNetwork) || ctx.Err() != nil {
			break
		}
		logger.Warn("Order request failed, retrying with same key", map[string]interface{}{
			"cart_id": cartID,
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}
	if err != nil {
		return nil, o.app.fail("Checkout", err, fields)
	}

	o.mu.Lock()
	if !o.app.session.current(epoch) {
		o.mu.Unlock()
		return nil, o.app.fail("Checkout", ErrStaleSession, fields)
	}
	o.last = order
	o.mu.Unlock()
	cart.reset()
	o.app.setState(StateOrderPlaced)

	fields["order_id"] = order.ID
	fields["total"] = order.Total.StringFixed(2)
	logger.Info("Order placed", fields)
	o.app.notify(LevelSuccess, fmt.Sprintf("Order #%d placed, total %s", order.ID, order.Total.StringFixed(2)))
	return order, nil
}

func (o *Orders) List(ctx context.Context) ([]shopapi.Order, error) {
	token, epoch := o.app.session.snapshot()
	if token == "" {
		return nil, o.app.fail("Loading orders", ErrNotAuthenticated, nil)
	}

	orders, err := o.app.api.ListOrders(ctx, token)
	if err != nil {
		return nil, o.app.fail("Loading orders", err, nil)
	}
	if orders == nil {
		orders = []shopapi.Order{}
	}

	o.mu.Lock()
	if !o.app.session.current(epoch) {
		o.mu.Unlock()
		return nil, o.app.fail("Loading orders", ErrStaleSession, nil)
	}
	o.history = orders
	o.mu.Unlock()
	return o.History(), nil
}

func (o *Orders) History() []shopapi.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]shopapi.Order, len(o.history))
	copy(out, o.history)
	return out
}

// Last returns the order placed by the most recent successful checkout.
func (o *Orders) Last() (*shopapi.Order, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.last, o.last != nil
}

// InProgress reports whether a checkout is running.
func (o *Orders) InProgress() bool {
	return o.inFlight.Load()
}

func (o *Orders) reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = nil
	o.last = nil
}
