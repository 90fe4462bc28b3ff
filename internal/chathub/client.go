package chathub

import "shopchat/backend/internal/models"

// Client is one live relay connection as seen by the registry and the router.
// It abstracts the transport so the router can be exercised without a network.
type Client interface {
	// ID uniquely identifies this connection for its whole lifetime.
	ID() string
	// Key is the role-qualified conversation the connection was opened for.
	Key() Key
	// IsOpen reports whether the connection still accepts outbound messages.
	IsOpen() bool
	// Send queues a persisted message for delivery without blocking.
	// It returns false when the connection is closed or its queue is full.
	Send(msg models.ChatMessage) bool
	// Close stops the connection's outbound side. It is safe to call more than once.
	Close()
}
