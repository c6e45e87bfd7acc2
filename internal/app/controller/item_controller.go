package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/shopspring/decimal"
)

type ItemController struct {
	itemService service.ItemService
}

func NewItemController(itemService service.ItemService) *ItemController {
	return &ItemController{
		itemService: itemService,
	}
}

// CreateItemRequest accepts price as a JSON number or a decimal string.
type CreateItemRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category"`
	ImageURL    string           `json:"image_url"`
}

// CreateItem adds an item to the catalog
// POST /api/items
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create item request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, err, "Name and price are required")
		return
	}

	item, err := ctrl.itemService.CreateItem(c.Request.Context(), service.CreateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidItemInput):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Item name is required")
		case errors.Is(err, service.ErrNegativePrice):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price must not be negative")
		default:
			log.Error("Failed to create item", err, map[string]interface{}{
				"name": req.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create item")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListItems returns the catalog
// GET /api/items
func (ctrl *ItemController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items, err := ctrl.itemService.ListItems(c.Request.Context())
	if err != nil {
		log.Error("Failed to list items", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list items")
		return
	}

	log.Debug("Items listed", map[string]interface{}{
		"count": len(items),
	})
	c.JSON(http.StatusOK, items)
}
