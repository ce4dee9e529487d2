package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one pending-purchase line. The unique index on
// (user_id, product_id) guarantees repeated adds increment the existing
// line instead of duplicating it.
type CartItem struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID int       `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with its live product record, as served
// to the client and consumed by order placement.
type CartLine struct {
	ProductID     int             `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Quantity      int             `json:"quantity"`
	StockQuantity int             `json:"-"`
	IsAvailable   bool            `json:"-"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"-"`
}

type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}
