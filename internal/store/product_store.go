package store

import (
	"context"

	"gorm.io/gorm"

	"bakehouse/internal/models"
)

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ListAvailable returns the storefront catalog: available products only,
// newest first, optionally filtered by category.
func (s *ProductStore) ListAvailable(ctx context.Context, category string, limit, offset int) ([]models.Product, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("is_available = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

// List is the admin view: every product regardless of availability.
func (s *ProductStore) List(ctx context.Context, available *bool, limit, offset int) ([]models.Product, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if available != nil {
		q = q.Where("is_available = ?", *available)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (s *ProductStore) Get(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) GetAvailable(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("id = ? AND is_available = ?", id, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// Update applies a partial column update; callers build fields from the
// non-nil members of an UpdateProductRequest.
func (s *ProductStore) Update(ctx context.Context, id int, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReferencedByOrders reports whether any historical order line points at
// this product, in which case it must not be hard-deleted.
func (s *ProductStore) ReferencedByOrders(ctx context.Context, id int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *ProductStore) MarkUnavailable(ctx context.Context, id int) error {
	return s.Update(ctx, id, map[string]interface{}{"is_available": false})
}

func (s *ProductStore) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
