package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ikkim/storefront/pkg/logger"
)

// IdempotencyKeyHeader is sent with CreateOrder so retries reuse the order.
const IdempotencyKeyHeader = "Idempotency-Key"

// Client represents a storefront API client. Authenticated calls take the
// bearer token explicitly; the client holds no session.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new storefront API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		config:     config,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/users/login", "", nil, CredentialsRequest{
		Username: username,
		Password: password,
	}, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// CreateUser registers a new account
func (c *Client) CreateUser(ctx context.Context, username, password string) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodPost, "/users", "", nil, CredentialsRequest{
		Username: username,
		Password: password,
	}, &user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	items := []Item{}
	if err := c.doRequest(ctx, http.MethodGet, "/items", "", nil, nil, &items); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	var item Item
	if err := c.doRequest(ctx, http.MethodPost, "/items", "", nil, req, &item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

// ListCarts returns the user's carts; the server keeps at most one.
func (c *Client) ListCarts(ctx context.Context, token string) ([]Cart, error) {
	carts := []Cart{}
	if err := c.doRequest(ctx, http.MethodGet, "/carts", token, nil, nil, &carts); err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	return carts, nil
}

// AddToCart adds one unit of itemID and returns the updated cart
func (c *Client) AddToCart(ctx context.Context, token string, itemID uint) (*Cart, error) {
	var cart Cart
	if err := c.doRequest(ctx, http.MethodPost, "/carts", token, nil, AddToCartRequest{ItemID: itemID}, &cart); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return &cart, nil
}

// RemoveFromCart drops the line holding the catalog item itemID
func (c *Client) RemoveFromCart(ctx context.Context, token string, itemID uint) (*Cart, error) {
	var resp removeFromCartResponse
	path := fmt.Sprintf("/carts/items/%d", itemID)
	if err := c.doRequest(ctx, http.MethodDelete, path, token, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	return &resp.Cart, nil
}

// CreateOrder converts the cart into an order. A non-empty idempotencyKey
// makes retries return the same order.
func (c *Client) CreateOrder(ctx context.Context, token string, cartID uint, idempotencyKey string) (*Order, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{IdempotencyKeyHeader: idempotencyKey}
	}

	var order Order
	if err := c.doRequest(ctx, http.MethodPost, "/orders", token, headers, CreateOrderRequest{CartID: cartID}, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	orders := []Order{}
	if err := c.doRequest(ctx, http.MethodGet, "/orders", token, nil, nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// doRequest performs an HTTP request against the API and decodes a 2xx body
// into out. Non-2xx responses become *APIError.
func (c *Client) doRequest(
	ctx context.Context,
	method, path, token string,
	headers map[string]string,
	payload, out interface{},
) error {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Debug("Storefront API request", map[string]interface{}{
		"method":        method,
		"url":           url,
		"authenticated": token != "",
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	logger.Debug("Storefront API response", map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"body_size":   len(respBody),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" && apiErr.Code == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
