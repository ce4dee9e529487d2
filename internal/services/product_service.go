package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

type ProductService struct {
	products *store.ProductStore
}

func NewProductService(products *store.ProductStore) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) ListAvailable(ctx context.Context, category string, limit, offset int) ([]models.Product, int64, error) {
	return s.products.ListAvailable(ctx, category, limit, offset)
}

func (s *ProductService) GetAvailable(ctx context.Context, id int) (*models.Product, error) {
	p, err := s.products.GetAvailable(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// Admin operations.

func (s *ProductService) List(ctx context.Context, available *bool, limit, offset int) ([]models.Product, int64, error) {
	return s.products.List(ctx, available, limit, offset)
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	p, err := s.products.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	p := &models.Product{
		Name:          req.Name,
		Category:      req.Category,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.Stock,
		IsAvailable:   available,
		ImageURL:      req.ImageURL,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id int, req models.UpdateProductRequest) error {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock_quantity"] = *req.Stock
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}
	if len(fields) == 0 {
		return nil
	}

	err := s.products.Update(ctx, id, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

// Delete removes a product from the catalog. A product referenced by
// order line items is only marked unavailable: historical orders keep
// their captured name and price, so the row must stay.
func (s *ProductService) Delete(ctx context.Context, id int) (deleted bool, err error) {
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}

	referenced, err := s.products.ReferencedByOrders(ctx, id)
	if err != nil {
		return false, err
	}
	if referenced {
		return false, s.products.MarkUnavailable(ctx, id)
	}
	return true, s.products.Delete(ctx, id)
}
