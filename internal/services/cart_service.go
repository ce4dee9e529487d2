package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

type CartService struct {
	carts    *store.CartStore
	products *store.ProductStore
}

func NewCartService(carts *store.CartStore, products *store.ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// Cart is the client view: lines with per-line subtotals plus the running
// total, priced from the live catalog.
type Cart struct {
	Items []models.CartLine `json:"items"`
	Total string            `json:"total"`
}

func (s *CartService) GetCart(ctx context.Context, userID int) (*Cart, error) {
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	total := decimal.Zero
	for i := range lines {
		lines[i].Subtotal = lines[i].Price.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		total = total.Add(lines[i].Subtotal)
	}
	return &Cart{Items: lines, Total: total.StringFixed(2)}, nil
}

// AddItem puts quantity units of a product into the cart. Adding a product
// already in the cart increments the existing line.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int) error {
	_, err := s.products.GetAvailable(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	return s.carts.Add(ctx, userID, productID, quantity)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID, quantity int) error {
	err := s.carts.UpdateQuantity(ctx, userID, productID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID int) error {
	err := s.carts.Remove(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartItemNotFound
	}
	return err
}
