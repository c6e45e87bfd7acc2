package repository

import (
	"time"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(cart *model.Cart) error
	FindByUserID(userID uint) (*model.Cart, error)
	ListByUserID(userID uint) ([]model.Cart, error)
	FindByIDAndUser(cartID, userID uint) (*model.Cart, error)
	Touch(cartID uint) error
	Delete(cartID uint) error
	FindLine(cartID, itemID uint) (*model.CartItem, error)
	CreateLine(line *model.CartItem) error
	UpdateLine(line *model.CartItem) error
	DeleteLineByItem(cartID, itemID uint) (int64, error)
	DeleteEmptyOlderThan(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

// preloadLines loads lines in insertion order together with their items,
// including items removed from the catalog since they were added.
func (r *cartRepository) preloadLines() *gorm.DB {
	return r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id")
		}).
		Preload("Items.Item", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})
}

// Create inserts the cart unless the user already has one, in which case it
// does nothing and cart.ID stays zero.
func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(cart).Error
	if err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

// FindByUserID returns the user's active cart with its lines.
func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.preloadLines().
		Where("user_id = ?", userID).
		Order("id").
		First(&cart).Error
	if err != nil {
		logFindError("Failed to find cart by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"lines":   len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) ListByUserID(userID uint) ([]model.Cart, error) {
	carts := []model.Cart{}
	err := r.preloadLines().
		Where("user_id = ?", userID).
		Order("id").
		Find(&carts).Error
	if err != nil {
		logger.Error("Failed to list carts by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return carts, nil
}

func (r *cartRepository) FindByIDAndUser(cartID, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.preloadLines().
		Where("id = ? AND user_id = ?", cartID, userID).
		First(&cart).Error
	if err != nil {
		logFindError("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": cartID,
			"user_id": userID,
		})
		return nil, err
	}
	return &cart, nil
}

// Touch bumps updated_at so the janitor treats the cart as active. It
// returns gorm.ErrRecordNotFound when the cart no longer exists.
func (r *cartRepository) Touch(cartID uint) error {
	result := r.db.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the cart and all of its lines.
func (r *cartRepository) Delete(cartID uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart lines from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	if err := r.db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindLine(cartID, itemID uint) (*model.CartItem, error) {
	var line model.CartItem
	err := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).First(&line).Error
	if err != nil {
		logFindError("Failed to find cart line in database", err, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) CreateLine(line *model.CartItem) error {
	logger.Debug("Creating cart line in database", map[string]interface{}{
		"cart_id":  line.CartID,
		"item_id":  line.ItemID,
		"quantity": line.Quantity,
	})

	if err := r.db.Create(line).Error; err != nil {
		logger.Error("Failed to create cart line in database", err, map[string]interface{}{
			"cart_id": line.CartID,
			"item_id": line.ItemID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateLine(line *model.CartItem) error {
	logger.Debug("Updating cart line in database", map[string]interface{}{
		"cart_item_id": line.ID,
		"quantity":     line.Quantity,
	})

	err := r.db.Model(&model.CartItem{}).
		Where("id = ?", line.ID).
		Update("quantity", line.Quantity).Error
	if err != nil {
		logger.Error("Failed to update cart line in database", err, map[string]interface{}{
			"cart_item_id": line.ID,
		})
		return err
	}
	return nil
}

// DeleteLineByItem removes the line holding itemID and reports how many rows
// went away.
func (r *cartRepository) DeleteLineByItem(cartID, itemID uint) (int64, error) {
	logger.Debug("Deleting cart line from database", map[string]interface{}{
		"cart_id": cartID,
		"item_id": itemID,
	})

	result := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete cart line from database", result.Error, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteEmptyOlderThan purges carts without lines that were last touched
// before cutoff.
func (r *cartRepository) DeleteEmptyOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("updated_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Delete(&model.Cart{})
	if result.Error != nil {
		logger.Error("Failed to delete empty carts from database", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	logger.Debug("Empty carts deleted from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
