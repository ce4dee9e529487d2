package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type Order struct {
	ID              int             `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"size:32;not null;uniqueIndex"`
	UserID          int             `json:"user_id" gorm:"not null;index"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:decimal(10,2);not null"`
	FinalAmount     decimal.Decimal `json:"final_amount" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"size:16;not null;index"`
	PaymentMethod   string          `json:"payment_method" gorm:"size:16;not null"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"size:16;not null"`
	ShippingAddr    string          `json:"shipping_address" gorm:"size:255"`
	ShippingCity    string          `json:"shipping_city" gorm:"size:100"`
	ShippingZip     string          `json:"shipping_postal_code" gorm:"size:20"`
	ShippingCountry string          `json:"shipping_country" gorm:"size:100"`
	Notes           string          `json:"notes"`
	Items           []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem captures product name and unit price at purchase time and is
// never updated afterwards; later catalog edits must not leak into order
// history.
type OrderItem struct {
	ID          int             `json:"id" gorm:"primaryKey"`
	OrderID     int             `json:"order_id" gorm:"not null;index"`
	ProductID   int             `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"size:255;not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
	ShippingCity    string `json:"shipping_city" binding:"required"`
	ShippingCountry string `json:"shipping_country"`
	ShippingZip     string `json:"shipping_postal_code"`
	PaymentMethod   string `json:"payment_method" binding:"required,oneof=card paypal cash"`
	Notes           string `json:"notes"`
	RedeemPoints    int    `json:"redeem_points" binding:"gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// OrderConfirmation is what the checkout client gets back; amounts are
// two-place decimal strings.
type OrderConfirmation struct {
	OrderID     int    `json:"order_id"`
	OrderNumber string `json:"order_number"`
	TotalAmount string `json:"total_amount"`
	FinalAmount string `json:"final_amount"`
}

// OrderSummary is an admin listing row: an order joined with its customer
// and item count.
type OrderSummary struct {
	ID            int             `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        int             `json:"user_id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
}
