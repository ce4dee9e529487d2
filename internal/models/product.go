package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int             `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Category      string          `json:"category" gorm:"size:100;index"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	IsAvailable   bool            `json:"is_available" gorm:"not null"`
	ImageURL      string          `json:"image_url" gorm:"size:512"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock_quantity" binding:"gte=0"`
	ImageURL    string          `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

// UpdateProductRequest carries a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock_quantity"`
	ImageURL    *string          `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
}
