package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Money fields go over the wire as JSON numbers, e.g. "price":999.99.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCategory is assigned to items created without a category.
const DefaultCategory = "General"

type Item struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(50);not null;index" json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Item) TableName() string {
	return "items"
}
