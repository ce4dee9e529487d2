package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakehouse/internal/models"
)

func TestCatalogHidesUnavailableProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	visible := env.seedProduct(t, "Sourdough Loaf", "6.50", 10, true)
	hidden := env.seedProduct(t, "Retired Rye", "5.00", 10, false)

	products, total, err := env.productService.ListAvailable(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, visible.ID, products[0].ID)

	_, err = env.productService.GetAvailable(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateAndUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.productService.Create(ctx, models.CreateProductRequest{
		Name:     "Pain au Chocolat",
		Category: "pastries",
		Price:    decimal.RequireFromString("3.60"),
		Stock:    24,
	})
	require.NoError(t, err)
	assert.True(t, product.IsAvailable)

	stock := 12
	require.NoError(t, env.productService.Update(ctx, product.ID, models.UpdateProductRequest{Stock: &stock}))

	reloaded, err := env.productService.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, reloaded.StockQuantity)

	assert.ErrorIs(t, env.productService.Update(ctx, 999, models.UpdateProductRequest{Stock: &stock}), ErrProductNotFound)
}

func TestCreateUnavailableProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	available := false
	product, err := env.productService.Create(ctx, models.CreateProductRequest{
		Name:        "Day-Old Baguette",
		Category:    "bread",
		Price:       decimal.RequireFromString("1.00"),
		Stock:       5,
		IsAvailable: &available,
	})
	require.NoError(t, err)
	assert.False(t, product.IsAvailable)

	// The flag must survive the insert and keep the product off the
	// storefront.
	reloaded, err := env.productService.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsAvailable)

	products, total, err := env.productService.ListAvailable(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, products)
}

func TestDeleteProductWithOrderHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com", 0)
	ordered := env.seedProduct(t, "Espresso", "4.50", 10, true)
	unordered := env.seedProduct(t, "Macchiato", "4.75", 10, true)

	env.addToCart(t, user.ID, ordered.ID, 1)
	_, err := env.orderService.PlaceOrder(ctx, user.ID, checkoutRequest())
	require.NoError(t, err)

	// Referenced by a line item: soft-delete so history keeps its row.
	deleted, err := env.productService.Delete(ctx, ordered.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	survivor, err := env.productService.Get(ctx, ordered.ID)
	require.NoError(t, err)
	assert.False(t, survivor.IsAvailable)

	// Never ordered: hard delete.
	deleted, err = env.productService.Delete(ctx, unordered.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = env.productService.Get(ctx, unordered.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
