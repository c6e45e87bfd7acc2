package shopapi

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// CartLine is one item of a cart with its quantity.
type CartLine struct {
	ID       uint `json:"id"`
	CartID   uint `json:"cart_id"`
	ItemID   uint `json:"item_id"`
	Quantity uint `json:"quantity"`
	Item     Item `json:"item"`
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID     uint       `json:"id"`
	UserID uint       `json:"user_id"`
	Lines  []CartLine `json:"items"`
}

type OrderItem struct {
	ID       uint            `json:"id"`
	OrderID  uint            `json:"order_id"`
	ItemID   uint            `json:"item_id"`
	Quantity uint            `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Item     Item            `json:"item"`
}

type Order struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	CartID    uint            `json:"cart_id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type CreateItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type AddToCartRequest struct {
	ItemID uint `json:"item_id"`
}

type CreateOrderRequest struct {
	CartID uint `json:"cart_id"`
}

type removeFromCartResponse struct {
	Message string `json:"message"`
	Cart    Cart   `json:"cart"`
}
