package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bakehouse/internal/models"
)

// ErrInsufficientPoints is returned when a points deduction would take a
// balance negative.
var ErrInsufficientPoints = errors.New("insufficient points")

// StockError reports a line that cannot be fulfilled, carrying the count
// still available so the client can correct the quantity.
type StockError struct {
	ProductID   int
	ProductName string
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.ProductName, e.Available)
}

// UnavailableError reports a line whose product has been withdrawn from
// sale since it entered the cart.
type UnavailableError struct {
	ProductID   int
	ProductName string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("product %s is no longer available", e.ProductName)
}

// Open connects to the MySQL database behind dsn.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every persistent model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Message{},
	)
}
