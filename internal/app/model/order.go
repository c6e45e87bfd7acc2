package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	UserID         uint            `gorm:"not null;index;uniqueIndex:idx_orders_user_idempotency" json:"user_id"`
	CartID         uint            `gorm:"not null" json:"cart_id"` // source cart, deleted after conversion
	IdempotencyKey *string         `gorm:"type:varchar(64);uniqueIndex:idx_orders_user_idempotency" json:"idempotency_key,omitempty"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the price of an item at checkout time.
type OrderItem struct {
	ID       uint            `gorm:"primarykey" json:"id"`
	OrderID  uint            `gorm:"not null;index" json:"order_id"`
	ItemID   uint            `gorm:"not null;index" json:"item_id"`
	Quantity uint            `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	Item Item `gorm:"foreignKey:ItemID" json:"item"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
