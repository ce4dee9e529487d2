package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"bakehouse/api/handlers"
	"bakehouse/api/middleware"
	"bakehouse/internal/auth"
	"bakehouse/internal/config"
	"bakehouse/internal/metrics"
	"bakehouse/internal/notify"
	"bakehouse/internal/services"
	"bakehouse/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// Stores
	products := store.NewProductStore(db)
	carts := store.NewCartStore(db)
	orders := store.NewOrderStore(db)
	users := store.NewUserStore(db)
	messages := store.NewMessageStore(db)
	analytics := store.NewAnalyticsStore(db)

	// Sessions: Redis when configured, in-memory otherwise
	var sessions auth.SessionStore
	if cfg.Redis.Addr != "" {
		sessions = auth.NewRedisSessionStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		log.Warn("No Redis address configured, using in-memory sessions")
		sessions = auth.NewMemorySessionStore()
	}

	// Notifications
	var notifier services.Notifier
	if cfg.Notify.URL != "" {
		notifier = notify.NewDispatcher(cfg.Notify.URL)
	}

	// Services
	productService := services.NewProductService(products)
	cartService := services.NewCartService(carts, products)
	orderService := services.NewOrderService(orders, carts, users, notifier)
	authService := services.NewAuthService(users, sessions, cfg.SessionTTL())
	dashboardService := services.NewDashboardService(users, orders)

	// Handlers
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService, dashboardService)
	messageHandler := handlers.NewMessageHandler(messages)
	adminHandler := handlers.NewAdminHandler(productService, orderService, users, orders, analytics)

	router := setupRouter(cfg, sessions, users, productHandler, cartHandler, orderHandler, authHandler, messageHandler, adminHandler)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server shutdown complete")
}

func setupRouter(
	cfg *config.Config,
	sessions auth.SessionStore,
	users *store.UserStore,
	productHandler *handlers.ProductHandler,
	cartHandler *handlers.CartHandler,
	orderHandler *handlers.OrderHandler,
	authHandler *handlers.AuthHandler,
	messageHandler *handlers.MessageHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	authRequired := middleware.RequireAuth(sessions, users)

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/contact", messageHandler.Contact)

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		// Authenticated routes
		api.POST("/logout", authRequired, authHandler.Logout)
		api.GET("/dashboard", authRequired, authHandler.Dashboard)
		api.PUT("/profile", authRequired, authHandler.UpdateProfile)
		api.POST("/points/redeem", authRequired, authHandler.RedeemPoints)

		cart := api.Group("/cart", authRequired)
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:product_id", cartHandler.UpdateItem)
			cart.DELETE("/items/:product_id", cartHandler.RemoveItem)
		}

		orders := api.Group("/orders", authRequired)
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
		}

		// Admin routes
		admin := api.Group("/admin", authRequired, middleware.RequireAdmin())
		{
			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)

			admin.GET("/customers", adminHandler.ListCustomers)
			admin.GET("/customers/:id", adminHandler.GetCustomer)

			admin.GET("/messages", messageHandler.List)
			admin.PUT("/messages/:id/read", messageHandler.MarkRead)

			admin.GET("/analytics", adminHandler.Analytics)
		}

		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
