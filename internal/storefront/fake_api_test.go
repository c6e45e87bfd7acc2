package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/shopspring/decimal"
)

const fakeToken = "fake-token"

// fakeAPI keeps one user's cart in memory and behaves like the server.
type fakeAPI struct {
	mu sync.Mutex

	password string
	items    []shopapi.Item
	cart     *shopapi.Cart
	orders   []shopapi.Order
	nextID   uint

	calls map[string]int
	keys  []string

	listItemsErr    error
	listCartsErr    error
	createOrderErrs []error

	// orderGate, when set, blocks CreateOrder until it is closed.
	orderGate    chan struct{}
	orderStarted chan struct{}
	// afterListCarts runs after ListCarts has captured its response.
	afterListCarts func()
}

func newFakeAPI(items ...shopapi.Item) *fakeAPI {
	return &fakeAPI{
		password: "password123",
		items:    items,
		nextID:   100,
		calls:    map[string]int{},
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) auth(token string) error {
	if token != fakeToken {
		return &shopapi.APIError{StatusCode: 401, Code: "AUTH_TOKEN_INVALID", Message: "Invalid token"}
	}
	return nil
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*shopapi.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Login"]++
	if username != "testuser" || password != f.password {
		return nil, &shopapi.APIError{StatusCode: 401, Code: "AUTH_INVALID_CREDENTIALS", Message: "Invalid credentials"}
	}
	return &shopapi.LoginResponse{User: shopapi.User{ID: 1, Username: username}, Token: fakeToken}, nil
}

func (f *fakeAPI) ListItems(_ context.Context) ([]shopapi.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListItems"]++
	if f.listItemsErr != nil {
		return nil, f.listItemsErr
	}
	return append([]shopapi.Item{}, f.items...), nil
}

func (f *fakeAPI) ListCarts(_ context.Context, token string) ([]shopapi.Cart, error) {
	f.mu.Lock()
	f.calls["ListCarts"]++
	if err := f.auth(token); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if f.listCartsErr != nil {
		f.mu.Unlock()
		return nil, f.listCartsErr
	}
	carts := []shopapi.Cart{}
	if f.cart != nil {
		c := *f.cart
		c.Lines = append([]shopapi.CartLine{}, f.cart.Lines...)
		carts = append(carts, c)
	}
	hook := f.afterListCarts
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return carts, nil
}

func (f *fakeAPI) AddToCart(_ context.Context, token string, itemID uint) (*shopapi.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["AddToCart"]++
	if err := f.auth(token); err != nil {
		return nil, err
	}

	var item *shopapi.Item
	for i := range f.items {
		if f.items[i].ID == itemID {
			item = &f.items[i]
		}
	}
	if item == nil {
		return nil, &shopapi.APIError{StatusCode: 404, Code: "ITEM_NOT_FOUND", Message: "Item not found"}
	}

	if f.cart == nil {
		f.cart = &shopapi.Cart{ID: f.id(), UserID: 1}
	}
	for i := range f.cart.Lines {
		if f.cart.Lines[i].ItemID == itemID {
			f.cart.Lines[i].Quantity++
			c := *f.cart
			return &c, nil
		}
	}
	f.cart.Lines = append(f.cart.Lines, shopapi.CartLine{
		ID: f.id(), CartID: f.cart.ID, ItemID: itemID, Quantity: 1, Item: *item,
	})
	c := *f.cart
	return &c, nil
}

func (f *fakeAPI) RemoveFromCart(_ context.Context, token string, itemID uint) (*shopapi.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["RemoveFromCart"]++
	if err := f.auth(token); err != nil {
		return nil, err
	}
	if f.cart == nil {
		return nil, &shopapi.APIError{StatusCode: 404, Code: "CART_NOT_FOUND", Message: "Cart not found"}
	}
	for i, line := range f.cart.Lines {
		if line.ItemID == itemID {
			f.cart.Lines = append(f.cart.Lines[:i], f.cart.Lines[i+1:]...)
			c := *f.cart
			return &c, nil
		}
	}
	return nil, &shopapi.APIError{StatusCode: 404, Code: "CART_LINE_NOT_FOUND", Message: "Item not in cart"}
}

func (f *fakeAPI) CreateOrder(_ context.Context, token string, cartID uint, key string) (*shopapi.Order, error) {
	f.mu.Lock()
	f.calls["CreateOrder"]++
	f.keys = append(f.keys, key)
	gate, started := f.orderGate, f.orderStarted
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.auth(token); err != nil {
		return nil, err
	}
	if len(f.createOrderErrs) > 0 {
		err := f.createOrderErrs[0]
		f.createOrderErrs = f.createOrderErrs[1:]
		return nil, err
	}
	if f.cart == nil || f.cart.ID != cartID {
		return nil, &shopapi.APIError{StatusCode: 404, Code: "CART_NOT_FOUND", Message: "Cart not found"}
	}
	if len(f.cart.Lines) == 0 {
		return nil, &shopapi.APIError{StatusCode: 400, Code: "CART_EMPTY", Message: "Cart is empty"}
	}

	order := shopapi.Order{ID: f.id(), UserID: 1, CartID: cartID, Total: decimal.Zero, CreatedAt: time.Now()}
	for _, line := range f.cart.Lines {
		order.Items = append(order.Items, shopapi.OrderItem{
			ID: f.id(), OrderID: order.ID, ItemID: line.ItemID, Quantity: line.Quantity,
			Price: line.Item.Price, Item: line.Item,
		})
		order.Total = order.Total.Add(line.Subtotal())
	}
	f.orders = append(f.orders, order)
	f.cart = nil
	return &order, nil
}

func (f *fakeAPI) ListOrders(_ context.Context, token string) ([]shopapi.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListOrders"]++
	if err := f.auth(token); err != nil {
		return nil, err
	}
	return append([]shopapi.Order{}, f.orders...), nil
}

func item(id uint, name, category, price string) shopapi.Item {
	return shopapi.Item{ID: id, Name: name, Category: category, Price: decimal.RequireFromString(price)}
}

func sampleItems() []shopapi.Item {
	return []shopapi.Item{
		item(1, "Wireless Headphones", "Electronics", "199.99"),
		item(2, "Smartphone", "Electronics", "999.00"),
		item(3, "Running Shoes", "Sports", "89.50"),
		item(4, "Coffee Maker", "Home & Garden", "49.99"),
		item(5, "Yoga Mat", "Sports", "25.00"),
	}
}

func errNetwork(msg string) error {
	return fmt.Errorf("%w: %s", shopapi.ErrNetwork, msg)
}
