package chathub_test

import (
	"context"
	"shopchat/backend/internal/chathub"
	"shopchat/backend/internal/models"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify/mock implementation of storage.MessageStore.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) InsertMessage(ctx context.Context, conversationID, senderID, text string, isRead bool) (*models.ChatMessage, error) {
	args := m.Called(ctx, conversationID, senderID, text, isRead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStore) MarkRead(ctx context.Context, messageID uint) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockStore) MarkAllRead(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockStore) ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStore) CountUnreadFromAdmin(ctx context.Context, conversationID string) (int64, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).(int64), args.Error(1)
}

// storedMessage builds the record a store would return for an insert.
func storedMessage(id uint, conversationID, senderID, text string, isRead bool) *models.ChatMessage {
	return &models.ChatMessage{
		ID:        id,
		UserID:    conversationID,
		SenderID:  senderID,
		Text:      text,
		IsRead:    isRead,
		CreatedAt: time.Now(),
	}
}

// MockClient is an in-memory chathub.Client that records what it was sent.
type MockClient struct {
	id          string
	key         chathub.Key
	RecvChannel chan models.ChatMessage

	mu     sync.Mutex
	closed bool
}

func newMockClient(id string, role models.Role, conversationID string) *MockClient {
	return &MockClient{
		id:          id,
		key:         chathub.Key{Role: role, ConversationID: conversationID},
		RecvChannel: make(chan models.ChatMessage, 10),
	}
}

func (c *MockClient) ID() string       { return c.id }
func (c *MockClient) Key() chathub.Key { return c.key }

func (c *MockClient) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *MockClient) Send(msg models.ChatMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.RecvChannel <- msg
	return true
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// DrainMessages returns everything the client has received so far.
func (c *MockClient) DrainMessages() []models.ChatMessage {
	var messages []models.ChatMessage
	for {
		select {
		case msg := <-c.RecvChannel:
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
