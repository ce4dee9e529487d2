package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"bakehouse/internal/services"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	category := c.Query("category")
	limit, offset := pagination(c, 50)

	products, total, err := h.productService.ListAvailable(c.Request.Context(), category, limit, offset)
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
		"category": category,
	})
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.productService.GetAvailable(c.Request.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Fetching product failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	respondOK(c, "Product retrieved successfully", gin.H{"product": product})
}

// pagination reads limit/offset query parameters, clamping limit to
// [1, 1000] around the given default.
func pagination(c *gin.Context, defaultLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit < 1 || limit > 1000 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
