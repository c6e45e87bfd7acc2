package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartLineNotFound = errors.New("item is not in the cart")
)

type CartService interface {
	ListCarts(userID uint) ([]model.Cart, error)
	AddItem(userID, itemID uint) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	PurgeEmptyCarts(olderThan time.Duration) (int64, error)
}

type cartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
	db       *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	itemRepo repository.ItemRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
		db:       db,
	}
}

// ListCarts returns the user's carts; a user holds at most one.
func (s *cartService) ListCarts(userID uint) ([]model.Cart, error) {
	carts, err := s.cartRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Carts retrieved", map[string]interface{}{
		"user_id": userID,
		"count":   len(carts),
	})
	return carts, nil
}

// AddItem puts one unit of itemID into the user's cart, creating the cart on
// first use. An item already in the cart has its quantity incremented.
func (s *cartService) AddItem(userID, itemID uint) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})

	if _, err := s.itemRepo.FindByID(itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: item not found", map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var cartID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)

		cart, err := activeCart(carts, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		line, err := carts.FindLine(cart.ID, itemID)
		switch {
		case err == nil:
			line.Quantity++
			if err := carts.UpdateLine(line); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := carts.CreateLine(&model.CartItem{
				CartID:   cart.ID,
				ItemID:   itemID,
				Quantity: 1,
			}); err != nil {
				return err
			}
		default:
			return err
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
		})
		return nil, fmt.Errorf("add item to cart: %w", err)
	}

	cart, err := s.cartRepo.FindByIDAndUser(cartID, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
		"item_id": itemID,
		"lines":   len(cart.Items),
	})
	return cart, nil
}

// activeCartAttempts bounds the get-or-create loop in activeCart.
const activeCartAttempts = 3

// activeCart returns the user's cart, creating it on first use, and touches
// it before any line is written so a concurrent janitor run skips it. A cart
// purged between the lookup and the touch is looked up again.
func activeCart(carts repository.CartRepository, userID uint) (*model.Cart, error) {
	for attempt := 0; attempt < activeCartAttempts; attempt++ {
		cart, err := carts.FindByUserID(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent first add may insert first; the unique index
			// turns this insert into a no-op and the next lookup finds it.
			if err := carts.Create(&model.Cart{UserID: userID}); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		err = carts.Touch(cart.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart vanished before it could be used, retrying", map[string]interface{}{
				"user_id": userID,
				"cart_id": cart.ID,
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		return cart, nil
	}
	return nil, fmt.Errorf("no active cart for user %d after %d attempts", userID, activeCartAttempts)
}

// RemoveItem drops the whole line holding itemID from the user's cart.
func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot remove from cart: user has no cart", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	removed, err := s.cartRepo.DeleteLineByItem(cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		logger.Warn("Cannot remove from cart: item not in cart", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
			"item_id": itemID,
		})
		return nil, ErrCartLineNotFound
	}
	if err := s.cartRepo.Touch(cart.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	return s.cartRepo.FindByIDAndUser(cart.ID, userID)
}

// PurgeEmptyCarts deletes carts without lines untouched for olderThan.
func (s *cartService) PurgeEmptyCarts(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	purged, err := s.cartRepo.DeleteEmptyOlderThan(cutoff)
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		logger.Info("Purged empty carts", map[string]interface{}{
			"count":  purged,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}
	return purged, nil
}
