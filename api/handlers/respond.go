package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// All endpoints answer with the same envelope the storefront client
// expects: {"status": ..., "message": ..., "timestamp": ..., "data": ...}.

func respond(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{
		"status":    "success",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondOK(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, message, data)
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"status":    "error",
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
