package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bakehouse/internal/models"
)

// AnalyticsStore serves the admin reporting queries. Cancelled orders are
// excluded from revenue figures everywhere.
type AnalyticsStore struct {
	db *gorm.DB
}

func NewAnalyticsStore(db *gorm.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) SalesTrend(ctx context.Context, days int) ([]models.DailySales, error) {
	since := time.Now().AddDate(0, 0, -days)
	var rows []models.DailySales
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("created_at >= ? AND status != ?", since, models.OrderStatusCancelled).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales trend: %w", err)
	}
	return rows, nil
}

func (s *AnalyticsStore) TopProducts(ctx context.Context, limit int) ([]models.ProductSales, error) {
	var rows []models.ProductSales
	err := s.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS units_sold, COALESCE(SUM(order_items.line_total), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status != ?", models.OrderStatusCancelled).
		Group("order_items.product_id, order_items.product_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return rows, nil
}

func (s *AnalyticsStore) StatusBreakdown(ctx context.Context) ([]models.StatusCount, error) {
	var rows []models.StatusCount
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}
	return rows, nil
}

func (s *AnalyticsStore) PaymentMethodBreakdown(ctx context.Context) ([]models.PaymentMethodCount, error) {
	var rows []models.PaymentMethodCount
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(final_amount), 0) AS revenue").
		Where("status != ?", models.OrderStatusCancelled).
		Group("payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("payment method breakdown: %w", err)
	}
	return rows, nil
}
