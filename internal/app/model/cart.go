package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single active cart of a user, enforced by the unique index on
// user_id. It is deleted once converted into an order.
type Cart struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Cart) TableName() string {
	return "carts"
}

// Total sums price times quantity over the loaded lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.Subtotal())
	}
	return total
}

type CartItem struct {
	ID       uint `gorm:"primarykey" json:"id"`
	CartID   uint `gorm:"not null;uniqueIndex:idx_cart_items_cart_item" json:"cart_id"`
	ItemID   uint `gorm:"not null;uniqueIndex:idx_cart_items_cart_item" json:"item_id"`
	Quantity uint `gorm:"not null;default:1" json:"quantity"`

	Item Item `gorm:"foreignKey:ItemID" json:"item"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (ci *CartItem) Subtotal() decimal.Decimal {
	return ci.Item.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
