package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

type testEnv struct {
	db       *gorm.DB
	products *store.ProductStore
	carts    *store.CartStore
	orders   *store.OrderStore
	users    *store.UserStore

	productService *ProductService
	cartService    *CartService
	orderService   *OrderService
}

// newTestEnv wires the services against a fresh in-memory SQLite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))

	env := &testEnv{
		db:       db,
		products: store.NewProductStore(db),
		carts:    store.NewCartStore(db),
		orders:   store.NewOrderStore(db),
		users:    store.NewUserStore(db),
	}
	env.productService = NewProductService(env.products)
	env.cartService = NewCartService(env.carts, env.products)
	env.orderService = NewOrderService(env.orders, env.carts, env.users, nil)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email string, points int) *models.User {
	t.Helper()
	user := &models.User{
		Username:     strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleUser,
		Points:       points,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int, available bool) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Category:      "pastries",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsAvailable:   available,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *testEnv) addToCart(t *testing.T, userID, productID, quantity int) {
	t.Helper()
	require.NoError(t, e.cartService.AddItem(context.Background(), userID, productID, quantity))
}

func (e *testEnv) stockOf(t *testing.T, productID int) int {
	t.Helper()
	p, err := e.products.Get(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func (e *testEnv) cartSize(t *testing.T, userID int) int {
	t.Helper()
	lines, err := e.carts.Lines(context.Background(), userID)
	require.NoError(t, err)
	return len(lines)
}

func (e *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&count).Error)
	return count
}

func checkoutRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		ShippingAddress: "12 Flour St",
		ShippingCity:    "Portland",
		ShippingCountry: "USA",
		ShippingZip:     "97201",
		PaymentMethod:   "card",
	}
}
