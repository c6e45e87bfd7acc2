package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/db"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderControllerEnv struct {
	router *gin.Engine
	carts  service.CartService
	user   *model.User
	items  []model.Item
}

func setupOrderControllerTest(t *testing.T) *orderControllerEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	cartService := service.NewCartService(cartRepo, itemRepo, testDB)
	orderController := NewOrderController(service.NewOrderService(orderRepo, cartRepo, testDB))

	user := &model.User{Username: "testuser", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	items := []model.Item{
		{Name: "Yoga Mat", Price: decimal.RequireFromString("39.99"), Category: "Sports"},
		{Name: "Bicycle", Price: decimal.RequireFromString("799.99"), Category: "Sports"},
	}
	require.NoError(t, testDB.Create(&items).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authed := router.Group("/api", withUserID(user.ID))
	authed.POST("/orders", orderController.CreateOrder)
	authed.GET("/orders", orderController.ListOrders)

	return &orderControllerEnv{
		router: router,
		carts:  cartService,
		user:   user,
		items:  items,
	}
}

func postOrder(router *gin.Engine, cartID uint, key string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"cart_id": cartID})
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderController_CreateOrder_Success(t *testing.T) {
	env := setupOrderControllerTest(t)

	_, err := env.carts.AddItem(env.user.ID, env.items[0].ID)
	require.NoError(t, err)
	_, err = env.carts.AddItem(env.user.ID, env.items[0].ID)
	require.NoError(t, err)
	cart, err := env.carts.AddItem(env.user.ID, env.items[1].ID)
	require.NoError(t, err)

	w := postOrder(env.router, cart.ID, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, cart.ID, order.CartID)
	assert.Equal(t, "879.97", order.Total.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, uint(2), order.Items[0].Quantity)

	carts, err := env.carts.ListCarts(env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, carts)
}

func TestOrderController_CreateOrder_ReplayedKey(t *testing.T) {
	env := setupOrderControllerTest(t)
	key := uuid.NewString()

	cart, err := env.carts.AddItem(env.user.ID, env.items[1].ID)
	require.NoError(t, err)

	first := postOrder(env.router, cart.ID, key)
	require.Equal(t, http.StatusCreated, first.Code)
	second := postOrder(env.router, cart.ID, key)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b model.Order
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.ID, b.ID)

	w := performJSON(env.router, "GET", "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestOrderController_CreateOrder_Errors(t *testing.T) {
	env := setupOrderControllerTest(t)

	_, err := env.carts.AddItem(env.user.ID, env.items[0].ID)
	require.NoError(t, err)
	emptied, err := env.carts.RemoveItem(env.user.ID, env.items[0].ID)
	require.NoError(t, err)

	t.Run("Missing cart_id", func(t *testing.T) {
		w := performJSON(env.router, "POST", "/api/orders", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
	})

	t.Run("Unknown cart", func(t *testing.T) {
		w := postOrder(env.router, 9999, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.CartNotFound, errorCode(t, w))
	})

	t.Run("Empty cart", func(t *testing.T) {
		w := postOrder(env.router, emptied.ID, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.CartEmpty, errorCode(t, w))
	})
}

func TestOrderController_ListOrders_Empty(t *testing.T) {
	env := setupOrderControllerTest(t)

	w := performJSON(env.router, "GET", "/api/orders", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
