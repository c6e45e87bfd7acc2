package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/shopspring/decimal"
)

// Cart mirrors the server cart. Every mutation is followed by a full
// re-fetch; nothing is updated optimistically.
type Cart struct {
	app *App

	mu     sync.RWMutex
	cartID uint
	lines  []shopapi.CartLine
}

// Open fetches the cart for display.
func (c *Cart) Open(ctx context.Context) ([]shopapi.CartLine, error) {
	if err := c.refresh(ctx); err != nil {
		return nil, c.app.fail("Loading cart", err, nil)
	}
	c.app.enter(StateCartOpen)
	return c.Lines(), nil
}

func (c *Cart) AddItem(ctx context.Context, itemID uint) error {
	token, epoch := c.app.session.snapshot()
	if token == "" {
		return c.app.fail("Adding to cart", ErrNotAuthenticated, nil)
	}

	if _, err := c.app.api.AddToCart(ctx, token, itemID); err != nil {
		return c.app.fail("Adding to cart", err, map[string]interface{}{"item_id": itemID})
	}
	if !c.app.session.current(epoch) {
		return c.app.fail("Adding to cart", ErrStaleSession, nil)
	}
	if err := c.refresh(ctx); err != nil {
		return c.app.fail("Loading cart", err, nil)
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"item_id": itemID,
		"count":   c.Count(),
	})
	c.app.notify(LevelSuccess, fmt.Sprintf("Added %s to cart", c.itemName(itemID)))
	return nil
}

// RemoveItem deletes the line holding the catalog item itemID.
func (c *Cart) RemoveItem(ctx context.Context, itemID uint) error {
	token, epoch := c.app.session.snapshot()
	if token == "" {
		return c.app.fail("Removing from cart", ErrNotAuthenticated, nil)
	}

	name := c.itemName(itemID)
	if _, err := c.app.api.RemoveFromCart(ctx, token, itemID); err != nil {
		return c.app.fail("Removing from cart", err, map[string]interface{}{"item_id": itemID})
	}
	if !c.app.session.current(epoch) {
		return c.app.fail("Removing from cart", ErrStaleSession, nil)
	}
	if err := c.refresh(ctx); err != nil {
		return c.app.fail("Loading cart", err, nil)
	}

	logger.Info("Item removed from cart", map[string]interface{}{
		"item_id": itemID,
		"count":   c.Count(),
	})
	c.app.notify(LevelInfo, fmt.Sprintf("Removed %s from cart", name))
	return nil
}

func (c *Cart) Lines() []shopapi.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]shopapi.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// ID returns the server cart id; ok is false when there is no cart.
func (c *Cart) ID() (uint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cartID, c.cartID != 0
}

func (c *Cart) Total() decimal.Decimal {
	return Total(c.Lines())
}

// Count is the badge number: total quantity across lines.
func (c *Cart) Count() int {
	return Count(c.Lines())
}

// refresh replaces the local lines with the first server cart.
func (c *Cart) refresh(ctx context.Context) error {
	token, epoch := c.app.session.snapshot()
	if token == "" {
		return ErrNotAuthenticated
	}

	carts, err := c.app.api.ListCarts(ctx, token)
	if err != nil {
		return err
	}

	// Logout bumps the epoch before it resets the cart, so checking under
	// the lock keeps old lines from being written back.
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.app.session.current(epoch) {
		return ErrStaleSession
	}
	if len(carts) == 0 {
		c.cartID = 0
		c.lines = nil
		return nil
	}
	c.cartID = carts[0].ID
	c.lines = append([]shopapi.CartLine(nil), carts[0].Lines...)
	return nil
}

func (c *Cart) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartID = 0
	c.lines = nil
}

func (c *Cart) itemName(itemID uint) string {
	c.mu.RLock()
	for _, line := range c.lines {
		if line.ItemID == itemID && line.Item.Name != "" {
			c.mu.RUnlock()
			return line.Item.Name
		}
	}
	c.mu.RUnlock()

	if item, ok := c.app.catalog.Item(itemID); ok {
		return item.Name
	}
	return fmt.Sprintf("item #%d", itemID)
}

// Total is the sum of price times quantity over lines.
func Total(lines []shopapi.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func Count(lines []shopapi.CartLine) int {
	n := 0
	for _, line := range lines {
		n += int(line.Quantity)
	}
	return n
}
