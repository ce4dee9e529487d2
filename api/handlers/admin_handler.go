package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bakehouse/internal/models"
	"bakehouse/internal/services"
	"bakehouse/internal/store"
)

// AdminHandler serves the dashboard backends: product management, order
// oversight, customer listing and reporting.
type AdminHandler struct {
	productService *services.ProductService
	orderService   *services.OrderService
	users          *store.UserStore
	orders         *store.OrderStore
	analytics      *store.AnalyticsStore
}

func NewAdminHandler(
	productService *services.ProductService,
	orderService *services.OrderService,
	users *store.UserStore,
	orders *store.OrderStore,
	analytics *store.AnalyticsStore,
) *AdminHandler {
	return &AdminHandler{
		productService: productService,
		orderService:   orderService,
		users:          users,
		orders:         orders,
		analytics:      analytics,
	}
}

// GET /api/admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	limit, offset := pagination(c, 50)

	var available *bool
	if v := c.Query("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid available filter")
			return
		}
		available = &b
	}

	products, total, err := h.productService.List(c.Request.Context(), available, limit, offset)
	if err != nil {
		log.WithError(err).Error("Listing products failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respondOK(c, "Products retrieved successfully", gin.H{
		"products": products,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).Error("Creating product failed")
		respondError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respondCreated(c, "Product created successfully", gin.H{"product": product})
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.productService.Update(c.Request.Context(), id, req)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Updating product failed")
		respondError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respondOK(c, "Product updated successfully", nil)
}

// DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	deleted, err := h.productService.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Deleting product failed")
		respondError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	if deleted {
		respondOK(c, "Product deleted successfully", nil)
	} else {
		respondOK(c, "Product marked as unavailable (has existing orders)", nil)
	}
}

// GET /api/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit, offset := pagination(c, 50)
	status := models.OrderStatus(c.Query("status"))

	orders, total, err := h.orderService.ListAllOrders(c.Request.Context(), status, limit, offset)
	if errors.Is(err, services.ErrInvalidStatus) {
		respondError(c, http.StatusBadRequest, "Invalid status filter")
		return
	}
	if err != nil {
		log.WithError(err).Error("Listing orders failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	respondOK(c, "Orders retrieved successfully", gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GET /api/admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Fetching order failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	customer, err := h.users.Get(c.Request.Context(), order.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithError(err).Error("Fetching order customer failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	respondOK(c, "Order retrieved successfully", gin.H{
		"order":    order,
		"customer": customer,
	})
}

// GET /api/admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	limit, offset := pagination(c, 50)

	customers, total, err := h.users.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		log.WithError(err).Error("Listing customers failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	respondOK(c, "Customers retrieved successfully", gin.H{
		"customers": customers,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GET /api/admin/customers/:id
func (h *AdminHandler) GetCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	customer, err := h.users.GetCustomer(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Fetching customer failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve customer")
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("Fetching customer orders failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve customer")
		return
	}

	respondOK(c, "Customer retrieved successfully", gin.H{
		"customer": customer,
		"orders":   orders,
	})
}

// GET /api/admin/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	ctx := c.Request.Context()

	trend, err := h.analytics.SalesTrend(ctx, days)
	if err != nil {
		log.WithError(err).Error("Analytics query failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}
	topProducts, err := h.analytics.TopProducts(ctx, 10)
	if err != nil {
		log.WithError(err).Error("Analytics query failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}
	statuses, err := h.analytics.StatusBreakdown(ctx)
	if err != nil {
		log.WithError(err).Error("Analytics query failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}
	payments, err := h.analytics.PaymentMethodBreakdown(ctx)
	if err != nil {
		log.WithError(err).Error("Analytics query failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}

	respondOK(c, "Analytics retrieved successfully", gin.H{
		"sales_trend":     trend,
		"top_products":    topProducts,
		"order_statuses":  statuses,
		"payment_methods": payments,
		"days":            days,
	})
}
