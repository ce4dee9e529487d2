package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bakehouse/api/middleware"
	"bakehouse/internal/auth"
	"bakehouse/internal/models"
	"bakehouse/internal/services"
	"bakehouse/internal/store"
)

type apiEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	sessions auth.SessionStore
	users    *store.UserStore
	carts    *store.CartStore
	products *store.ProductStore
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))

	products := store.NewProductStore(db)
	carts := store.NewCartStore(db)
	orders := store.NewOrderStore(db)
	users := store.NewUserStore(db)
	sessions := auth.NewMemorySessionStore()

	orderService := services.NewOrderService(orders, carts, users, nil)
	cartService := services.NewCartService(carts, products)
	productService := services.NewProductService(products)

	orderHandler := NewOrderHandler(orderService)
	cartHandler := NewCartHandler(cartService)
	productHandler := NewProductHandler(productService)

	authRequired := middleware.RequireAuth(sessions, users)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/products", productHandler.List)

	cart := api.Group("/cart", authRequired)
	cart.GET("", cartHandler.GetCart)
	cart.POST("/items", cartHandler.AddItem)

	ordersGroup := api.Group("/orders", authRequired)
	ordersGroup.POST("", orderHandler.Create)
	ordersGroup.GET("/:id", orderHandler.Get)
	ordersGroup.PUT("/:id/status", orderHandler.UpdateStatus)

	return &apiEnv{
		router:   router,
		db:       db,
		sessions: sessions,
		users:    users,
		carts:    carts,
		products: products,
	}
}

func (e *apiEnv) seedUserWithToken(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Username:     strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.users.Create(context.Background(), user))

	token, err := e.sessions.Create(context.Background(), user.ID, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (e *apiEnv) seedProduct(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Category:      "drinks",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsAvailable:   true,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func orderPayload() map[string]interface{} {
	return map[string]interface{}{
		"shipping_address":     "12 Flour St",
		"shipping_city":        "Portland",
		"shipping_postal_code": "97201",
		"payment_method":       "card",
	}
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/orders", "", orderPayload())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "error", body["status"])
}

func TestCreateOrderEndToEnd(t *testing.T) {
	env := newAPIEnv(t)

	user, token := env.seedUserWithToken(t, "alice@example.com", models.RoleUser)
	espresso := env.seedProduct(t, "Espresso", "4.50", 10)
	require.NoError(t, env.carts.Add(context.Background(), user.ID, espresso.ID, 2))

	rec := env.do(t, http.MethodPost, "/api/orders", token, orderPayload())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "9.00", data["total_amount"])
	assert.Equal(t, "9.00", data["final_amount"])
	assert.True(t, strings.HasPrefix(data["order_number"].(string), "ORD-"))

	// Cart cleared
	rec = env.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode(t, rec)["data"].(map[string]interface{})
	assert.Empty(t, cart["items"])
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newAPIEnv(t)

	_, token := env.seedUserWithToken(t, "bob@example.com", models.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/orders", token, orderPayload())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cart is empty", decode(t, rec)["message"])
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newAPIEnv(t)

	user, token := env.seedUserWithToken(t, "carol@example.com", models.RoleUser)
	scone := env.seedProduct(t, "Blueberry Scone", "3.25", 3)
	require.NoError(t, env.carts.Add(context.Background(), user.ID, scone.ID, 5))

	rec := env.do(t, http.MethodPost, "/api/orders", token, orderPayload())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	message := decode(t, rec)["message"].(string)
	assert.Contains(t, message, "Blueberry Scone")
	assert.Contains(t, message, "3 available")
}

func TestUpdateStatusGuards(t *testing.T) {
	env := newAPIEnv(t)

	owner, ownerToken := env.seedUserWithToken(t, "dave@example.com", models.RoleUser)
	_, adminToken := env.seedUserWithToken(t, "admin@example.com", models.RoleAdmin)
	bagel := env.seedProduct(t, "Bagel", "2.00", 10)
	require.NoError(t, env.carts.Add(context.Background(), owner.ID, bagel.ID, 1))

	rec := env.do(t, http.MethodPost, "/api/orders", ownerToken, orderPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := int(decode(t, rec)["data"].(map[string]interface{})["order_id"].(float64))

	path := fmt.Sprintf("/api/orders/%d/status", orderID)

	// Owner can only cancel
	rec = env.do(t, http.MethodPut, path, ownerToken, gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin can confirm
	rec = env.do(t, http.MethodPut, path, adminToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Owner can no longer cancel a confirmed order
	rec = env.do(t, http.MethodPut, path, ownerToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown status rejected
	rec = env.do(t, http.MethodPut, path, adminToken, gin.H{"status": "misplaced"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
