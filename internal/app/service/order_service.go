package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidIdempotencyKey = errors.New("idempotency key is too long")
)

const maxIdempotencyKeyLength = 64

type OrderService interface {
	// CreateOrderFromCart converts the cart into an order. replayed reports
	// that idempotencyKey matched an order placed earlier.
	CreateOrderFromCart(userID, cartID uint, idempotencyKey string) (order *model.Order, replayed bool, err error)
	GetUserOrders(userID uint) ([]model.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

func (s *orderService) CreateOrderFromCart(userID, cartID uint, idempotencyKey string) (*model.Order, bool, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":         userID,
		"cart_id":         cartID,
		"idempotency_key": idempotencyKey,
	})

	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return nil, false, ErrInvalidIdempotencyKey
	}

	if idempotencyKey != "" {
		existing, err := s.findReplay(userID, idempotencyKey)
		if err != nil || existing != nil {
			return existing, existing != nil, err
		}
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, false, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
			panic(r)
		}
	}()

	carts := s.cartRepo.WithTx(tx)
	orders := s.orderRepo.WithTx(tx)

	cart, err := carts.FindByIDAndUser(cartID, userID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot create order: cart not found for user", map[string]interface{}{
				"user_id": userID,
				"cart_id": cartID,
			})
			return nil, false, ErrCartNotFound
		}
		return nil, false, err
	}

	if len(cart.Items) == 0 {
		tx.Rollback()
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
		})
		return nil, false, ErrEmptyCart
	}

	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		orderItems = append(orderItems, model.OrderItem{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.Item.Price,
		})
		total = total.Add(line.Subtotal())
	}

	order := &model.Order{
		UserID: userID,
		CartID: cart.ID,
		Total:  total,
		Items:  orderItems,
	}
	if idempotencyKey != "" {
		key := idempotencyKey
		order.IdempotencyKey = &key
	}

	if err := orders.Create(order); err != nil {
		tx.Rollback()
		if idempotencyKey != "" {
			// A concurrent request with the same key won the unique index.
			if existing, findErr := s.findReplay(userID, idempotencyKey); findErr == nil && existing != nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}

	if err := carts.Delete(cart.ID); err != nil {
		tx.Rollback()
		return nil, false, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
		})
		return nil, false, err
	}

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, false, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id": created.ID,
		"user_id":  userID,
		"total":    created.Total.StringFixed(2),
		"lines":    len(created.Items),
	})
	return created, false, nil
}

func (s *orderService) findReplay(userID uint, key string) (*model.Order, error) {
	existing, err := s.orderRepo.FindByIdempotencyKey(userID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	logger.Info("Replaying order for idempotency key", map[string]interface{}{
		"order_id": existing.ID,
		"user_id":  userID,
	})
	return existing, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}
