package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the relay and REST endpoints on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)

	// /ws/{role}/{conversationId}; other shapes are closed by the handler.
	r.GET("/ws/*handshake", h.ServeWebSocket)

	chat := r.Group("/chat")
	{
		chat.GET("/online", h.GetOnline)
		chat.POST("/mark-read/:messageId", h.MarkRead)
		chat.GET("/:conversationId/history", h.GetHistory)
		chat.POST("/:conversationId/send", h.Send)
		chat.POST("/:conversationId/mark-all-read", h.MarkAllRead)
		chat.GET("/:conversationId/unread-count", h.GetUnreadCount)
	}
}
