package handler

import (
	"fmt"
	"log"
	"shopchat/backend/internal/chathub"
	"shopchat/backend/internal/models"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ServeWebSocket GET /ws/{role}/{conversationId} - Upgrade до relay-з'єднання.
// Якщо handshake не визначає коректного учасника, з'єднання одразу закривається.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	key, err := chathub.ParseHandshakePath(c.Request.URL.Path)
	if err == nil && key.Role == models.RoleAdmin && h.AdminTokenSecret != "" {
		if _, tokenErr := ValidateAdminToken(h.AdminTokenSecret, c.Query("token")); tokenErr != nil {
			err = fmt.Errorf("%w: %v", chathub.ErrBadHandshake, tokenErr)
		}
	}

	conn, upgradeErr := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if upgradeErr != nil {
		// Upgrader вже відповів HTTP-помилкою.
		log.Printf("WARN: websocket upgrade failed: %v", upgradeErr)
		return
	}

	if err != nil {
		log.Printf("WARN: closing relay connection: %v", err)
		closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad handshake")
		_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
		conn.Close()
		return
	}

	chathub.NewWebSocketClient(conn, key, h.Router, h.Registry).Run()
}
