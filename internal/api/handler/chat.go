package handler

import (
	"errors"
	"log"
	"net/http"
	"shopchat/backend/internal/history"
	"shopchat/backend/internal/models"
	"strconv"

	"github.com/gin-gonic/gin"
)

type sendRequest struct {
	Text     string `json:"text"`
	SenderID string `json:"senderId"`
}

// conversationParam validates the :conversationId path segment, answering 400 when it is unusable.
func conversationParam(c *gin.Context) (string, bool) {
	id := c.Param("conversationId")
	if !models.ValidConversationID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return "", false
	}
	return id, true
}

func internalError(c *gin.Context, op string, err error) {
	log.Printf("ERROR: %s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// GetHistory GET /chat/:conversationId/history
func (h *Handler) GetHistory(c *gin.Context) {
	id, ok := conversationParam(c)
	if !ok {
		return
	}

	items, err := h.History.GetHistory(c.Request.Context(), id)
	if err != nil {
		internalError(c, "get history", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Send POST /chat/:conversationId/send
func (h *Handler) Send(c *gin.Context) {
	id, ok := conversationParam(c)
	if !ok {
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := h.History.Send(c.Request.Context(), id, req.Text, req.SenderID)
	if errors.Is(err, history.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		internalError(c, "send", err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// MarkRead POST /chat/mark-read/:messageId
func (h *Handler) MarkRead(c *gin.Context) {
	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.History.MarkRead(c.Request.Context(), uint(messageID)); err != nil {
		internalError(c, "mark read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead POST /chat/:conversationId/mark-all-read
func (h *Handler) MarkAllRead(c *gin.Context) {
	id, ok := conversationParam(c)
	if !ok {
		return
	}

	if err := h.History.MarkAllRead(c.Request.Context(), id); err != nil {
		internalError(c, "mark all read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUnreadCount GET /chat/:conversationId/unread-count
func (h *Handler) GetUnreadCount(c *gin.Context) {
	id, ok := conversationParam(c)
	if !ok {
		return
	}

	count, err := h.History.UnreadCount(c.Request.Context(), id)
	if err != nil {
		internalError(c, "unread count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// GetOnline GET /chat/online?role=user|admin lists conversations with a live connection.
func (h *Handler) GetOnline(c *gin.Context) {
	role, ok := models.ParseRole(c.DefaultQuery("role", string(models.RoleCustomer)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be user or admin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role, "conversations": h.Registry.Online(role)})
}

// Healthz GET /healthz
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Health.Ping(c.Request.Context()); err != nil {
		log.Printf("ERROR: health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "connections": h.Registry.Count()})
}
