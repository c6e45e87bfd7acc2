package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
}

// ListCarts returns the user's carts (zero or one)
// GET /api/carts
func (ctrl *CartController) ListCarts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	carts, err := ctrl.cartService.ListCarts(userID)
	if err != nil {
		log.Error("Failed to fetch carts", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list carts")
		return
	}

	c.JSON(http.StatusOK, carts)
}

// AddToCart adds one unit of an item to the user's cart
// POST /api/carts
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.RespondWithValidationError(c, err, "item_id is required")
		return
	}

	cart, err := ctrl.cartService.AddItem(userID, req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id": userID,
			"item_id": req.ItemID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to cart")
		return
	}

	c.JSON(http.StatusCreated, cart)
}

// RemoveFromCart drops the line holding the given catalog item
// DELETE /api/carts/items/:item_id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	idStr := c.Param("item_id")
	itemID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || itemID == 0 {
		log.Warn("Invalid item ID format", map[string]interface{}{
			"user_id": userID,
			"item_id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid item ID")
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, uint(itemID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
		case errors.Is(err, service.ErrCartLineNotFound):
			apperrors.NotFound(c, apperrors.CartLineNotFound, "Item is not in the cart")
		default:
			log.Error("Failed to remove item from cart", err, map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove from cart")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"cart":    cart,
	})
}
