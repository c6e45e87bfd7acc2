// Package storefront is the client side of the shop: it keeps the session,
// the loaded catalog and cart, and runs checkout against the REST API.
// Views (terminal UI, CLI) read state from App and never talk to the API
// themselves.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ikkim/storefront/internal/session"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
)

// API is the part of the REST client the storefront uses.
type API interface {
	Login(ctx context.Context, username, password string) (*shopapi.LoginResponse, error)
	ListItems(ctx context.Context) ([]shopapi.Item, error)
	ListCarts(ctx context.Context, token string) ([]shopapi.Cart, error)
	AddToCart(ctx context.Context, token string, itemID uint) (*shopapi.Cart, error)
	RemoveFromCart(ctx context.Context, token string, itemID uint) (*shopapi.Cart, error)
	CreateOrder(ctx context.Context, token string, cartID uint, idempotencyKey string) (*shopapi.Order, error)
	ListOrders(ctx context.Context, token string) ([]shopapi.Order, error)
}

type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateBrowsing
	StateCartOpen
	StateOrderPlaced
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateBrowsing:
		return "browsing"
	case StateCartOpen:
		return "cart-open"
	case StateOrderPlaced:
		return "order-placed"
	default:
		return "anonymous"
	}
}

type Option func(*App)

func WithNotifier(n Notifier) Option {
	return func(a *App) {
		if n != nil {
			a.notifier = n
		}
	}
}

// WithKeyGenerator replaces the uuid generator used for Idempotency-Key.
func WithKeyGenerator(gen func() string) Option {
	return func(a *App) {
		if gen != nil {
			a.newKey = gen
		}
	}
}

// WithCheckoutRetries sets how many times an order request that failed with
// a network error is resent under the same idempotency key.
func WithCheckoutRetries(n int) Option {
	return func(a *App) {
		if n >= 0 {
			a.checkoutRetries = n
		}
	}
}

type App struct {
	api      API
	store    session.Store
	notifier Notifier
	session  Session

	newKey          func() string
	checkoutRetries int

	mu    sync.RWMutex
	state State

	catalog *Catalog
	cart    *Cart
	orders  *Orders
}

func New(api API, store session.Store, opts ...Option) *App {
	a := &App{
		api:             api,
		store:           store,
		notifier:        discardNotifier{},
		newKey:          uuid.NewString,
		checkoutRetries: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.catalog = &Catalog{app: a}
	a.cart = &Cart{app: a}
	a.orders = &Orders{app: a}
	return a
}

func (a *App) Catalog() *Catalog { return a.catalog }
func (a *App) Cart() *Cart       { return a.cart }
func (a *App) Orders() *Orders   { return a.orders }
func (a *App) Session() *Session { return &a.session }

func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *App) setState(s State) {
	a.mu.Lock()
	prev := a.state
	a.state = s
	a.mu.Unlock()

	if prev != s {
		logger.Debug("Storefront state changed", map[string]interface{}{
			"from": prev.String(),
			"to":   s.String(),
		})
	}
}

// enter moves to s only while a session is held; anonymous users can browse
// the catalog without leaving the anonymous state.
func (a *App) enter(s State) {
	if a.session.Authenticated() {
		a.setState(s)
	}
}

// Login exchanges credentials for a token, persists it and fetches the cart
// badge. On failure the previous state is kept.
func (a *App) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return "", a.fail("Login", err, map[string]interface{}{"username": username})
	}
	if resp.Token == "" {
		return "", a.fail("Login", fmt.Errorf("%w: empty token in response", ErrAuth), nil)
	}

	if err := a.store.Save(ctx, resp.Token); err != nil {
		logger.Warn("Failed to persist session token", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.session.set(resp.Token)
	a.cart.reset()
	a.orders.reset()
	a.setState(StateAuthenticated)

	logger.Info("Logged in", map[string]interface{}{
		"user_id":  resp.User.ID,
		"username": resp.User.Username,
	})
	a.notify(LevelSuccess, fmt.Sprintf("Welcome, %s", resp.User.Username))

	if err := a.cart.refresh(ctx); err != nil {
		a.fail("Loading cart", err, nil)
	}
	return resp.Token, nil
}

// Logout drops the token from memory and from the store. Responses still in
// flight for the old session are discarded when they arrive.
func (a *App) Logout(ctx context.Context) error {
	err := a.endSession(ctx)
	logger.Info("Logged out")
	a.notify(LevelInfo, "Logged out")
	return err
}

// endSession clears the token everywhere and drops per-session state
// without telling the user.
func (a *App) endSession(ctx context.Context) error {
	var clearErr error
	if err := a.store.Clear(ctx); err != nil {
		logger.Warn("Failed to clear stored session token", map[string]interface{}{
			"error": err.Error(),
		})
		clearErr = err
	}

	a.session.set("")
	a.cart.reset()
	a.orders.reset()
	a.setState(StateAnonymous)
	return clearErr
}

// Restore loads a stored token at startup. It reports whether a session was
// restored. A token the server rejects is cleared.
func (a *App) Restore(ctx context.Context) (bool, error) {
	token, err := a.store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load stored session token", err)
		return false, err
	}
	if token == "" {
		return false, nil
	}

	a.session.set(token)
	a.setState(StateAuthenticated)

	if err := a.cart.refresh(ctx); err != nil {
		if errors.Is(err, ErrAuth) {
			logger.Warn("Stored session token rejected, clearing it")
			_ = a.endSession(ctx)
			return false, nil
		}
		a.fail("Loading cart", err, nil)
	}

	logger.Debug("Session restored")
	return true, nil
}

func (a *App) notify(level Level, msg string) {
	a.notifier.Notify(Notification{Level: level, Message: msg})
}

// fail logs err and surfaces it as a notification, then returns it.
// Stale responses are only logged.
func (a *App) fail(action string, err error, fields map[string]interface{}) error {
	if errors.Is(err, ErrStaleSession) {
		logger.Debug("Discarded response for ended session", map[string]interface{}{
			"action": action,
		})
		return err
	}

	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["action"] = action
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrCheckoutInProgress) {
		logger.Warn("Storefront action rejected", fields)
	} else {
		logger.Error("Storefront action failed", err, fields)
	}

	a.notify(LevelError, userMessage(action, err))
	return err
}
