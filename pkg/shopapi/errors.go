package shopapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidConfig is returned by NewClient for an unusable Config
	ErrInvalidConfig = errors.New("invalid client config")

	// ErrUnauthorized is returned for 401 responses: bad credentials or a
	// missing, expired or rejected token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork is returned when the server cannot be reached or answers 5xx
	ErrNetwork = errors.New("network error")

	// ErrBadRequest is returned for 400 responses
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for 409 responses
	ErrConflict = errors.New("conflict")
)

// APIError is a non-2xx response. It unwraps to the sentinel matching its
// status so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("storefront API %d %s: %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("storefront API %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode >= 500:
		return ErrNetwork
	}
	return nil
}

// IsAuthError reports whether err means the session is not (or no longer)
// authorized.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNetworkError reports whether err is a transport failure or server error.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}
