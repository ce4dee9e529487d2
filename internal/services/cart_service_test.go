package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakehouse/internal/models"
)

func TestAddItemIncrementsExistingLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice@example.com", 0)
	donut := env.seedProduct(t, "Glazed Donut", "1.50", 50, true)

	require.NoError(t, env.cartService.AddItem(ctx, user.ID, donut.ID, 2))
	require.NoError(t, env.cartService.AddItem(ctx, user.ID, donut.ID, 3))

	cart, err := env.cartService.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "7.50", cart.Total)
}

func TestAddUpsertsSingleCartRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "frank@example.com", 0)
	pretzel := env.seedProduct(t, "Soft Pretzel", "2.25", 50, true)

	// Repeated adds of the same product must land on one row, courtesy
	// of the (user_id, product_id) upsert.
	for i := 0; i < 3; i++ {
		require.NoError(t, env.carts.Add(ctx, user.ID, pretzel.ID, 2))
	}

	var count int64
	require.NoError(t, env.db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	lines, err := env.carts.Lines(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "bob@example.com", 0)

	err := env.cartService.AddItem(context.Background(), user.ID, 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddItemUnavailableProduct(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "carol@example.com", 0)
	retired := env.seedProduct(t, "Seasonal Stollen", "8.00", 10, false)

	err := env.cartService.AddItem(context.Background(), user.ID, retired.ID, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "dave@example.com", 0)
	espresso := env.seedProduct(t, "Espresso", "4.50", 10, true)
	cookie := env.seedProduct(t, "Chocolate Chip Cookie", "3.00", 10, true)

	env.addToCart(t, user.ID, espresso.ID, 2)
	env.addToCart(t, user.ID, cookie.ID, 1)

	cart, err := env.cartService.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "9.00", cart.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "3.00", cart.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "12.00", cart.Total)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "erin@example.com", 0)
	brownie := env.seedProduct(t, "Brownie", "2.50", 20, true)
	env.addToCart(t, user.ID, brownie.ID, 1)

	require.NoError(t, env.cartService.UpdateItem(ctx, user.ID, brownie.ID, 4))
	cart, err := env.cartService.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	require.NoError(t, env.cartService.RemoveItem(ctx, user.ID, brownie.ID))
	assert.Zero(t, env.cartSize(t, user.ID))

	assert.ErrorIs(t, env.cartService.UpdateItem(ctx, user.ID, brownie.ID, 1), ErrCartItemNotFound)
	assert.ErrorIs(t, env.cartService.RemoveItem(ctx, user.ID, brownie.ID), ErrCartItemNotFound)
}

func TestCartsAreScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.seedUser(t, "alice@example.com", 0)
	bob := env.seedUser(t, "bob@example.com", 0)
	roll := env.seedProduct(t, "Cinnamon Roll", "3.75", 10, true)

	env.addToCart(t, alice.ID, roll.ID, 2)

	cart, err := env.cartService.GetCart(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Total)
}
