package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

type MessageHandler struct {
	messages *store.MessageStore
}

func NewMessageHandler(messages *store.MessageStore) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// POST /api/contact (public)
func (h *MessageHandler) Contact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	msg := &models.Message{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	}
	if err := h.messages.Create(c.Request.Context(), msg); err != nil {
		log.WithError(err).Error("Storing contact message failed")
		respondError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	respondCreated(c, "Message sent. We'll get back to you soon.", nil)
}

// GET /api/admin/messages
func (h *MessageHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 50)

	messages, total, err := h.messages.List(c.Request.Context(), limit, offset)
	if err != nil {
		log.WithError(err).Error("Listing messages failed")
		respondError(c, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}

	respondOK(c, "Messages retrieved successfully", gin.H{
		"messages": messages,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// PUT /api/admin/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message ID")
		return
	}

	err = h.messages.MarkRead(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		log.WithError(err).Error("Marking message read failed")
		respondError(c, http.StatusInternalServerError, "Failed to update message")
		return
	}

	respondOK(c, "Message marked as read", nil)
}
