package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/db"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupItemControllerTest(t *testing.T) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	itemController := NewItemController(service.NewItemService(repository.NewItemRepository(testDB), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/items", itemController.CreateItem)
	router.GET("/api/items", itemController.ListItems)
	return router
}

func TestItemController_CreateItem(t *testing.T) {
	router := setupItemControllerTest(t)

	tests := []struct {
		name         string
		body         gin.H
		wantStatus   int
		wantCode     string
		wantPrice    string
		wantCategory string
	}{
		{
			name:         "Numeric price",
			body:         gin.H{"name": "Yoga Mat", "price": 39.99, "category": "Sports"},
			wantStatus:   http.StatusCreated,
			wantPrice:    "39.99",
			wantCategory: "Sports",
		},
		{
			name:         "String price and default category",
			body:         gin.H{"name": "Gift Card", "price": "25"},
			wantStatus:   http.StatusCreated,
			wantPrice:    "25.00",
			wantCategory: model.DefaultCategory,
		},
		{
			name:       "Missing price",
			body:       gin.H{"name": "Free Lunch"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
		{
			name:       "Negative price",
			body:       gin.H{"name": "Refund", "price": -1},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, "POST", "/api/items", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
				return
			}

			var item model.Item
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
			assert.NotZero(t, item.ID)
			assert.Equal(t, tt.wantPrice, item.Price.StringFixed(2))
			assert.Equal(t, tt.wantCategory, item.Category)
		})
	}
}

func TestItemController_ListItems(t *testing.T) {
	router := setupItemControllerTest(t)

	w := performJSON(router, "GET", "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	performJSON(router, "POST", "/api/items", gin.H{"name": "Bicycle", "price": "799.99", "category": "Sports"})

	w = performJSON(router, "GET", "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []model.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Bicycle", items[0].Name)
}

func TestItemController_ListItems_PricesAreNumbers(t *testing.T) {
	router := setupItemControllerTest(t)

	w := performJSON(router, "POST", "/api/items", gin.H{"name": "Laptop", "price": "999.00", "category": "Electronics"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"price":999`)

	w = performJSON(router, "GET", "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":999`)
	assert.NotContains(t, w.Body.String(), `"price":"`)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.IsType(t, float64(0), items[0]["price"])
}
