package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bakehouse/api/middleware"
	"bakehouse/internal/models"
	"bakehouse/internal/services"
	"bakehouse/internal/store"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	confirmation, err := h.orderService.PlaceOrder(c.Request.Context(), user.ID, req)
	if err != nil {
		h.placementError(c, err)
		return
	}

	respondCreated(c, "Order placed successfully", confirmation)
}

// placementError maps service errors onto HTTP responses. Validation
// failures carry the specific product and quantity; write failures stay
// generic for the client and detailed in the log.
func (h *OrderHandler) placementError(c *gin.Context, err error) {
	var stockErr *store.StockError
	var unavailErr *store.UnavailableError

	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		respondError(c, http.StatusUnauthorized, "Unauthorized. Please login first.")
	case errors.Is(err, services.ErrEmptyCart):
		respondError(c, http.StatusBadRequest, "Cart is empty")
	case errors.As(err, &stockErr):
		respondError(c, http.StatusBadRequest, stockErr.Error())
	case errors.As(err, &unavailErr):
		respondError(c, http.StatusBadRequest, unavailErr.Error())
	case errors.Is(err, store.ErrInsufficientPoints):
		respondError(c, http.StatusBadRequest, "Insufficient points")
	default:
		log.WithError(err).Error("Order placement failed")
		respondError(c, http.StatusInternalServerError, "Failed to place order. Please try again.")
	}
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orderService.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("Listing orders failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	respondOK(c, "Orders retrieved successfully", gin.H{"orders": orders})
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), user.ID, user.Role == models.RoleAdmin, orderID)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, "Forbidden")
		return
	case err != nil:
		log.WithError(err).Error("Fetching order failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	respondOK(c, "Order retrieved successfully", gin.H{"order": order})
}

// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.orderService.UpdateStatus(c.Request.Context(), user.ID, user.Role == models.RoleAdmin, orderID, req.Status)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "Invalid status. Valid statuses: pending, confirmed, processing, shipped, delivered, cancelled")
		return
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, "Only administrators can set this status")
		return
	case errors.Is(err, services.ErrCancelOnlyPending):
		respondError(c, http.StatusConflict, "Only pending orders can be cancelled")
		return
	case err != nil:
		log.WithError(err).Error("Order status update failed")
		respondError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respondOK(c, "Order status updated successfully", gin.H{
		"order_id":   orderID,
		"new_status": req.Status,
	})
}
