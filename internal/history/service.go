// Package history serves conversation history, unread badges and read-flag updates
// straight from the message store, independent of any live relay connection.
package history

import (
	"context"
	"errors"
	"fmt"
	"shopchat/backend/internal/models"
	"shopchat/backend/internal/storage"
)

// ErrInvalidInput is returned for requests that can never succeed, such as an empty text.
var ErrInvalidInput = errors.New("invalid input")

// Service handles the request/response side of support chat.
type Service struct {
	Store storage.MessageStore
}

func NewService(store storage.MessageStore) *Service {
	return &Service{Store: store}
}

// GetHistory returns every message of a conversation, oldest first.
func (s *Service) GetHistory(ctx context.Context, conversationID string) ([]models.HistoryItem, error) {
	messages, err := s.Store.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	items := make([]models.HistoryItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, models.NewHistoryItem(m))
	}
	return items, nil
}

// Send stores a message without a relay connection. Nobody is notified: the recipient
// finds it on the next history or unread-count poll, so it is always stored unread.
func (s *Service) Send(ctx context.Context, conversationID, text, senderID string) (*models.ChatMessage, error) {
	if !models.ValidConversationID(conversationID) {
		return nil, fmt.Errorf("%w: invalid conversation id %q", ErrInvalidInput, conversationID)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if senderID == "" {
		senderID = conversationID
	}
	if senderID != models.AdminIdentity && senderID != conversationID {
		return nil, fmt.Errorf("%w: sender %q cannot post into conversation %s", ErrInvalidInput, senderID, conversationID)
	}

	return s.Store.InsertMessage(ctx, conversationID, senderID, text, false)
}

// MarkRead flags a single message as read. Unknown ids succeed without effect.
func (s *Service) MarkRead(ctx context.Context, messageID uint) error {
	return s.Store.MarkRead(ctx, messageID)
}

// MarkAllRead flags every unread message of the conversation as read.
func (s *Service) MarkAllRead(ctx context.Context, conversationID string) error {
	return s.Store.MarkAllRead(ctx, conversationID)
}

// UnreadCount is the customer's badge: operator messages not yet read.
func (s *Service) UnreadCount(ctx context.Context, conversationID string) (int64, error) {
	return s.Store.CountUnreadFromAdmin(ctx, conversationID)
}
