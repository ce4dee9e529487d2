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
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cart, err := h.cartService.GetCart(c.Request.Context(), user.ID)
	if err != nil {
		log.WithError(err).Error("Loading cart failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}

	respondOK(c, "Cart retrieved", cart)
}

// POST /api/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.cartService.AddItem(c.Request.Context(), user.ID, req.ProductID, req.Quantity)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Adding to cart failed")
		respondError(c, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	respondOK(c, "Item added to cart", nil)
}

// PUT /api/cart/items/:product_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.cartService.UpdateItem(c.Request.Context(), user.ID, productID, req.Quantity)
	if errors.Is(err, services.ErrCartItemNotFound) {
		respondError(c, http.StatusNotFound, "Product not found in cart")
		return
	}
	if err != nil {
		log.WithError(err).Error("Updating cart item failed")
		respondError(c, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	respondOK(c, "Cart updated", nil)
}

// DELETE /api/cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	user := middleware.CurrentUser(c)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	err = h.cartService.RemoveItem(c.Request.Context(), user.ID, productID)
	if errors.Is(err, services.ErrCartItemNotFound) {
		respondError(c, http.StatusNotFound, "Product not found in cart")
		return
	}
	if err != nil {
		log.WithError(err).Error("Removing cart item failed")
		respondError(c, http.StatusInternalServerError, "Failed to remove from cart")
		return
	}

	respondOK(c, "Item removed from cart", nil)
}
