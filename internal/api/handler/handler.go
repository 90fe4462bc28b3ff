// Package handler exposes the support chat over HTTP: the REST history surface and
// the WebSocket relay endpoint.
package handler

import (
	"context"
	"net/http"
	"shopchat/backend/internal/chathub"
	"shopchat/backend/internal/history"

	"github.com/gorilla/websocket"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services the HTTP surface dispatches to.
type Handler struct {
	Registry *chathub.Registry
	Router   *chathub.Router
	History  *history.Service
	Health   Pinger

	// AdminTokenSecret, when set, makes admin handshakes carry a valid operator token.
	AdminTokenSecret string

	upgrader websocket.Upgrader
}

func NewHandler(registry *chathub.Registry, router *chathub.Router, hist *history.Service, health Pinger, allowedOrigins []string, adminTokenSecret string) *Handler {
	return &Handler{
		Registry:         registry,
		Router:           router,
		History:          hist,
		Health:           health,
		AdminTokenSecret: adminTokenSecret,
		upgrader:         newUpgrader(allowedOrigins),
	}
}

// newUpgrader accepts any origin when none are configured, and requests without an
// Origin header, which browsers always send.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowed) == 0 || origin == "" || allowed[origin]
		},
	}
}
