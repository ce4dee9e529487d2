package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bakehouse/internal/models"
)

type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// Lines returns the user's cart joined with live product data, oldest
// line first.
func (s *CartStore) Lines(ctx context.Context, userID int) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := s.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, products.name, products.price, products.image_url, cart_items.quantity, products.stock_quantity, products.is_available").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Scan(&lines).Error
	return lines, err
}

// Add inserts a cart line, or increments the quantity when the product is
// already in the cart. The upsert rides the unique (user_id, product_id)
// index, so concurrent adds of the same product merge instead of
// conflicting.
func (s *CartStore) Add(ctx context.Context, userID, productID, quantity int) error {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
}

func (s *CartStore) UpdateQuantity(ctx context.Context, userID, productID, quantity int) error {
	res := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CartStore) Remove(ctx context.Context, userID, productID int) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID int) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
