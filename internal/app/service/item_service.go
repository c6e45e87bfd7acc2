package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidItemInput = errors.New("item name is required")
	ErrNegativePrice    = errors.New("price must not be negative")
)

const catalogCacheKey = "items"

// ItemCache is the optional read-through cache in front of the catalog.
type ItemCache interface {
	Get(ctx context.Context, name string, dest interface{}) (bool, error)
	Set(ctx context.Context, name string, value interface{}) error
	Delete(ctx context.Context, name string) error
}

type CreateItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
}

type ItemService interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*model.Item, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	cache    ItemCache
}

// NewItemService builds the catalog service; cache may be nil.
func NewItemService(itemRepo repository.ItemRepository, cache ItemCache) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		cache:    cache,
	}
}

func (s *itemService) ListItems(ctx context.Context) ([]model.Item, error) {
	if s.cache != nil {
		var cached []model.Item
		ok, err := s.cache.Get(ctx, catalogCacheKey, &cached)
		if err != nil {
			logger.Warn("Catalog cache read failed, falling back to database", map[string]interface{}{
				"error": err.Error(),
			})
		} else if ok {
			logger.Debug("Catalog served from cache", map[string]interface{}{
				"count": len(cached),
			})
			return cached, nil
		}
	}

	items, err := s.itemRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, items); err != nil {
			logger.Warn("Catalog cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return items, nil
}

func (s *itemService) CreateItem(ctx context.Context, input CreateItemInput) (*model.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidItemInput
	}
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	item := &model.Item{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    category,
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
			logger.Warn("Catalog cache invalidation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	logger.Info("Item created", map[string]interface{}{
		"item_id":  item.ID,
		"category": item.Category,
	})
	return item, nil
}
