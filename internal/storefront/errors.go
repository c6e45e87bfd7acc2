package storefront

import (
	"errors"

	"github.com/ikkim/storefront/pkg/shopapi"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session
	// when none is held. No request is sent.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyCart is returned by Checkout when there is no cart or the
	// cart has no lines. No order request is sent.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCheckoutInProgress is returned when Checkout is called while a
	// previous checkout has not finished.
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	// ErrStaleSession is returned when a response arrives after the session
	// it was requested under has ended. The response is discarded.
	ErrStaleSession = errors.New("session changed before response arrived")

	// ErrAuth and ErrNetwork alias the client sentinels so callers only
	// import this package.
	ErrAuth    = shopapi.ErrUnauthorized
	ErrNetwork = shopapi.ErrNetwork
)

// userMessage turns an error into the text shown in a notification.
func userMessage(action string, err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first"
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty"
	case errors.Is(err, ErrCheckoutInProgress):
		return "Checkout is already in progress"
	case errors.Is(err, ErrAuth):
		return action + " failed: invalid credentials or session"
	case errors.Is(err, ErrNetwork):
		return action + " failed: server unreachable"
	}
	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return action + " failed: " + apiErr.Message
	}
	return action + " failed"
}
