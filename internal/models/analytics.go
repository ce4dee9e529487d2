package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DailySales struct {
	Day     string          `json:"day"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProductSales struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

type PaymentMethodCount struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int             `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// CustomerSummary is an admin listing row: a customer with their order
// count and lifetime spend.
type CustomerSummary struct {
	ID         int             `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	OrderCount int             `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	CreatedAt  time.Time       `json:"created_at"`
}
