package chathub

import (
	"shopchat/backend/internal/models"
	"sort"
	"sync"
)

// Key identifies a participant slot: one role on one conversation.
type Key struct {
	Role           models.Role
	ConversationID string
}

func (k Key) String() string { return k.Role.String() + ":" + k.ConversationID }

// PresenceFunc observes a key going online or offline.
type PresenceFunc func(key Key, online bool)

// Registry maps each Key to at most one live Client.
// All methods are safe for concurrent use. The last writer for a key wins; a close racing
// a reconnect for the same key is resolved by UnregisterClient only removing its own entry.
type Registry struct {
	mu       sync.RWMutex
	clients  map[Key]Client
	onChange PresenceFunc
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[Key]Client),
	}
}

// SetOnChange installs a callback fired when a key gains its first client or loses its client.
// It runs outside the registry lock.
func (r *Registry) SetOnChange(fn PresenceFunc) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Register stores c under key, silently replacing any previous client. The replaced client,
// if any, is returned but left open.
func (r *Registry) Register(key Key, c Client) Client {
	r.mu.Lock()
	prev, existed := r.clients[key]
	r.clients[key] = c
	notify := r.onChange
	r.mu.Unlock()

	if !existed && notify != nil {
		notify(key, true)
	}
	return prev
}

// Lookup returns the client currently registered for key.
func (r *Registry) Lookup(key Key) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[key]
	return c, ok
}

// Unregister removes whatever client is registered for key. Removing an absent key is a no-op.
func (r *Registry) Unregister(key Key) {
	r.mu.Lock()
	_, existed := r.clients[key]
	delete(r.clients, key)
	notify := r.onChange
	r.mu.Unlock()

	if existed && notify != nil {
		notify(key, false)
	}
}

// UnregisterClient removes c only if it is still the client registered for its key.
// It reports whether an entry was removed.
func (r *Registry) UnregisterClient(c Client) bool {
	key := c.Key()

	r.mu.Lock()
	current, ok := r.clients[key]
	removed := ok && current.ID() == c.ID()
	if removed {
		delete(r.clients, key)
	}
	notify := r.onChange
	r.mu.Unlock()

	if removed && notify != nil {
		notify(key, false)
	}
	return removed
}

// Online lists the conversation ids that have a registered client for role, sorted.
func (r *Registry) Online(role models.Role) []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.clients))
	for key := range r.clients {
		if key.Role == role {
			ids = append(ids, key.ConversationID)
		}
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
