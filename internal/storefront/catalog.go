package storefront

import (
	"context"
	"sync"

	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
)

// AllCategories selects every item.
const AllCategories = "All"

// Catalog holds the last fetched item list.
type Catalog struct {
	app *App

	mu    sync.RWMutex
	items []shopapi.Item
	err   error
}

// Load fetches the catalog and replaces the held list. On failure the old
// list is kept and Err reports the failure until the next successful load.
func (c *Catalog) Load(ctx context.Context) ([]shopapi.Item, error) {
	items, err := c.app.api.ListItems(ctx)
	if err != nil {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		return nil, c.app.fail("Loading products", err, nil)
	}
	if items == nil {
		items = []shopapi.Item{}
	}

	c.mu.Lock()
	c.items = items
	c.err = nil
	c.mu.Unlock()

	logger.Debug("Catalog loaded", map[string]interface{}{
		"count": len(items),
	})
	c.app.enter(StateBrowsing)
	return c.Items(), nil
}

func (c *Catalog) Items() []shopapi.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]shopapi.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Item looks up a loaded item by id.
func (c *Catalog) Item(id uint) (shopapi.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return shopapi.Item{}, false
}

func (c *Catalog) FilterByCategory(category string) []shopapi.Item {
	return FilterByCategory(c.Items(), category)
}

func (c *Catalog) Categories() []string {
	return Categories(c.Items())
}

// FilterByCategory returns the items in category, or all of them for
// AllCategories or "".
func FilterByCategory(items []shopapi.Item, category string) []shopapi.Item {
	if category == "" || category == AllCategories {
		return items
	}
	out := make([]shopapi.Item, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Categories returns AllCategories followed by each distinct category in the
// order it first appears.
func Categories(items []shopapi.Item) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{AllCategories}
	for _, item := range items {
		if item.Category == "" || item.Category == AllCategories {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}
