package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/router"
	"github.com/ikkim/storefront/internal/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func startAPI(t *testing.T) string {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	require.NoError(t, db.SeedDB(testDB))
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: "test"},
		JWT:    config.JWTConfig{Secret: "cli-secret", TokenExpiry: time.Hour},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	userRepo := repository.NewUserRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	server := httptest.NewServer(router.NewRouter(
		controller.NewUserController(service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)),
		controller.NewItemController(service.NewItemService(itemRepo, nil)),
		controller.NewCartController(service.NewCartService(cartRepo, itemRepo, testDB)),
		controller.NewOrderController(service.NewOrderService(orderRepo, cartRepo, testDB)),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		cfg,
	).Setup())
	t.Cleanup(server.Close)
	return server.URL + "/api"
}

func setupCLI(t *testing.T) {
	t.Helper()
	t.Setenv("STOREFRONT_API_URL", startAPI(t))
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Items(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "items", "--category", "Books")
	require.NoError(t, err)
	assert.Contains(t, out, "Categories: All, Electronics, Clothing, Home & Garden, Books, Sports")
	assert.Contains(t, out, "The Great Gatsby")
	assert.NotContains(t, out, "iPhone 15")
}

func TestCLI_RequiresLogin(t *testing.T) {
	setupCLI(t)

	for _, args := range [][]string{{"cart"}, {"add", "2"}, {"checkout"}, {"orders"}} {
		_, err := execute(t, "", args...)
		assert.ErrorIs(t, err, storefront.ErrNotAuthenticated, "%v", args)
	}
}

func TestCLI_ShoppingSession(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "password123\n", "login", "-u", "testuser")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, testuser")
	assert.Contains(t, out, "Cart: 0 item(s)")

	out, err = execute(t, "", "add", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "iPhone 15")
	assert.Contains(t, out, "Total: 999.00 (1 item(s))")

	out, err = execute(t, "", "remove", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")

	_, err = execute(t, "", "checkout")
	assert.ErrorIs(t, err, storefront.ErrEmptyCart)

	_, err = execute(t, "", "add", "2", "16")
	require.NoError(t, err)
	out, err = execute(t, "", "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "1011.99")

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	out, err = execute(t, "", "orders", "--export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 order(s)")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	total, err := f.GetCellValue("Orders", "E2")
	require.NoError(t, err)
	assert.Equal(t, "1011.99", total)

	_, err = execute(t, "", "logout")
	require.NoError(t, err)
	_, err = execute(t, "", "cart")
	assert.ErrorIs(t, err, storefront.ErrNotAuthenticated)
}

func TestCLI_Smoke(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "smoke")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful!")
	assert.Contains(t, out, "Add to cart successful!")
	assert.Contains(t, out, `"item_id": 2`)

	_, err = execute(t, "", "smoke", "--password", "nope")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"2", "16"})
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 16}, ids)

	for _, bad := range []string{"0", "-1", "abc"} {
		_, err := parseIDs([]string{bad})
		assert.Error(t, err, bad)
	}
}
