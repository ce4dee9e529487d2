package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bakehouse/internal/models"
)

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// CreateOrder persists a placement as one atomic unit: the order header
// with its line items, one conditional stock decrement per line, the
// caller's points adjustment, and the cart deletion. Any failure rolls
// back every write.
//
// The stock decrement carries its own stock_quantity >= ? guard so a
// concurrent checkout of the same units makes exactly one of the two
// transactions fail, regardless of what any earlier validation saw.
func (s *OrderStore) CreateOrder(ctx context.Context, order *models.Order, redeemPoints, earnPoints int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			res := tx.Model(&models.Product{}).
				Where("id = ? AND is_available = ? AND stock_quantity >= ?", item.ProductID, true, item.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock for product %d: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return s.stockFailure(tx, item)
			}
		}

		if redeemPoints > 0 {
			res := tx.Model(&models.User{}).
				Where("id = ? AND points >= ?", order.UserID, redeemPoints).
				UpdateColumn("points", gorm.Expr("points - ?", redeemPoints))
			if res.Error != nil {
				return fmt.Errorf("redeem points: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientPoints
			}
		}
		if earnPoints > 0 {
			err := tx.Model(&models.User{}).
				Where("id = ?", order.UserID).
				UpdateColumn("points", gorm.Expr("points + ?", earnPoints)).Error
			if err != nil {
				return fmt.Errorf("award points: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
}

// stockFailure explains why the conditional decrement matched no row.
func (s *OrderStore) stockFailure(tx *gorm.DB, item *models.OrderItem) error {
	var p models.Product
	if err := tx.Select("name", "stock_quantity", "is_available").First(&p, item.ProductID).Error; err != nil {
		return &UnavailableError{ProductID: item.ProductID, ProductName: item.ProductName}
	}
	if !p.IsAvailable {
		return &UnavailableError{ProductID: item.ProductID, ProductName: p.Name}
	}
	return &StockError{ProductID: item.ProductID, ProductName: p.Name, Available: p.StockQuantity}
}

func (s *OrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// List is the admin view: orders joined with their customer and item
// count, optionally filtered by status.
func (s *OrderStore) List(ctx context.Context, status models.OrderStatus, limit, offset int) ([]models.OrderSummary, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		base = base.Where("orders.status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderSummary
	err := base.
		Select(`orders.id, orders.order_number, orders.user_id, users.username, users.email,
			orders.total_amount, orders.final_amount, orders.status, orders.payment_method, orders.created_at,
			(SELECT COUNT(*) FROM order_items WHERE order_items.order_id = orders.id) AS item_count`).
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
