package chathub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"shopchat/backend/internal/models"
	"shopchat/backend/internal/storage"
	"time"
)

const defaultStoreTimeout = 10 * time.Second

// ErrMalformedEvent позначає вхідний фрейм, який неможливо передати. Такі фрейми відкидаються.
var ErrMalformedEvent = errors.New("malformed relay event")

// Router зберігає вхідні повідомлення та пересилає їх живому з'єднанню співрозмовника.
// Доставка не більше одного разу: джерелом правди є БД, push лише економить опитування.
type Router struct {
	Registry     *Registry
	Store        storage.MessageStore
	StoreTimeout time.Duration
}

func NewRouter(registry *Registry, store storage.MessageStore) *Router {
	return &Router{
		Registry:     registry,
		Store:        store,
		StoreTimeout: defaultStoreTimeout,
	}
}

// HandleFrame декодує та маршрутизує один фрейм, отриманий від з'єднання from.
// Відправнику нічого не повертається.
func (r *Router) HandleFrame(from Key, data []byte) {
	var ev models.InboundEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("WARN: dropping unparseable frame from %s: %v", from, err)
		return
	}

	timeout := r.StoreTimeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := r.Route(ctx, from, ev); err != nil {
		if errors.Is(err, ErrMalformedEvent) {
			log.Printf("WARN: dropping event from %s: %v", from, err)
			return
		}
		log.Printf("ERROR: relay event from %s lost: %v", from, err)
	}
}

// Route обробляє одну вхідну подію. Події інших типів ігноруються (повертається nil).
// Прапорець is_read фіксує, чи був співрозмовник онлайн у момент запису, і більше не змінюється.
func (r *Router) Route(ctx context.Context, from Key, ev models.InboundEvent) (*models.ChatMessage, error) {
	if ev.Type != models.EventTypeMessage {
		return nil, nil
	}

	conversationID := ev.UserID.String()
	if conversationID == "" || ev.Text == "" {
		return nil, fmt.Errorf("%w: userId and text are required", ErrMalformedEvent)
	}
	if !models.ValidConversationID(conversationID) {
		return nil, fmt.Errorf("%w: invalid conversation id %q", ErrMalformedEvent, conversationID)
	}
	if from.Role == models.RoleCustomer && conversationID != from.ConversationID {
		return nil, fmt.Errorf("%w: customer %s cannot post into conversation %s", ErrMalformedEvent, from.ConversationID, conversationID)
	}

	senderID := models.SenderFor(from.Role, conversationID)
	if ev.SenderID != "" && ev.SenderID != senderID {
		log.Printf("WARN: %s claimed sender %q, recording %q", from, ev.SenderID, senderID)
	}

	counterpart := Key{Role: from.Role.Counterpart(), ConversationID: conversationID}
	peer, found := r.Registry.Lookup(counterpart)
	online := found && peer.IsOpen()

	msg, err := r.Store.InsertMessage(ctx, conversationID, senderID, ev.Text, online)
	if err != nil {
		return nil, fmt.Errorf("persist message for %s: %w", conversationID, err)
	}

	if online && !peer.Send(*msg) {
		log.Printf("WARN: message %d stored but not delivered to %s", msg.ID, counterpart)
	}

	// Повідомлення оператора також надсилаються в admin-слот розмови,
	// щоб інтерфейс оператора отримав id та час, призначені сервером.
	if from.Role == models.RoleAdmin {
		own := Key{Role: models.RoleAdmin, ConversationID: conversationID}
		if echo, ok := r.Registry.Lookup(own); ok && echo.IsOpen() {
			echo.Send(*msg)
		}
	}

	return msg, nil
}
