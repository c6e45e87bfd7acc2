package repository

import (
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.Item) error
	FindAll() ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(item *model.Item) error {
	logger.Debug("Creating item in database", map[string]interface{}{
		"name":     item.Name,
		"category": item.Category,
		"price":    item.Price.String(),
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item in database", err, map[string]interface{}{
			"name": item.Name,
		})
		return err
	}

	logger.Debug("Item created in database", map[string]interface{}{
		"item_id": item.ID,
	})
	return nil
}

// FindAll returns the catalog ordered by id.
func (r *itemRepository) FindAll() ([]model.Item, error) {
	items := []model.Item{}
	if err := r.db.Order("id").Find(&items).Error; err != nil {
		logger.Error("Failed to list items in database", err)
		return nil, err
	}

	logger.Debug("Items listed from database", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, id).Error; err != nil {
		logFindError("Failed to find item by ID in database", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}
	return &item, nil
}
