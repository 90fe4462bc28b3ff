package chathub

import (
	"log"
	"shopchat/backend/internal/models"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 64
)

// WebSocketClient реалізує інтерфейс Client поверх з'єднання gorilla/websocket.
type WebSocketClient struct {
	Conn     *websocket.Conn
	Router   *Router
	Registry *Registry

	id   string
	key  Key
	send chan models.ChatMessage

	mu     sync.Mutex
	closed bool
}

func NewWebSocketClient(conn *websocket.Conn, key Key, router *Router, registry *Registry) *WebSocketClient {
	return &WebSocketClient{
		Conn:     conn,
		Router:   router,
		Registry: registry,
		id:       uuid.NewString(),
		key:      key,
		send:     make(chan models.ChatMessage, sendBufferSize),
	}
}

func (c *WebSocketClient) ID() string { return c.id }
func (c *WebSocketClient) Key() Key   { return c.key }

func (c *WebSocketClient) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *WebSocketClient) Send(msg models.ChatMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		log.Printf("WARN: send queue full for %s (%s), dropping message %d", c.key, c.id, msg.ID)
		return false
	}
}

// Close закриває канал send (writePump надішле CloseMessage і закриє сокет).
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Run реєструє клієнта та запускає 'pumps'.
func (c *WebSocketClient) Run() {
	if prev := c.Registry.Register(c.key, c); prev != nil {
		log.Printf("INFO: %s reconnected, connection %s replaces %s", c.key, c.id, prev.ID())
	} else {
		log.Printf("INFO: %s connected (%s)", c.key, c.id)
	}

	go c.writePump()
	go c.readPump()
}

// readPump по черзі передає фрейми з сокета в Router, тому порядок у межах з'єднання зберігається.
func (c *WebSocketClient) readPump() {
	defer func() {
		// Видаляємо лише себе: нове з'єднання з тим самим ключем не чіпаємо
		c.Registry.UnregisterClient(c)
		c.Close()
		c.Conn.Close()
		log.Printf("INFO: %s disconnected (%s)", c.key, c.id)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WARN: error reading from %s: %v", c.key, err)
			}
			break
		}

		c.Router.HandleFrame(c.key, message)
	}
}

// writePump читає повідомлення з каналу send, записує їх у WebSocket і надсилає Ping.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито, закриваємо з'єднання WS
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				log.Printf("WARN: write to %s failed: %v", c.key, err)
				c.Close()
				return
			}

		case <-ticker.C:
			// Надсилаємо Ping для підтримки з'єднання активним
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
