package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"shopchat/backend/internal/api/handler"
	"shopchat/backend/internal/chathub"
	"shopchat/backend/internal/history"
	"shopchat/backend/internal/models"
	"shopchat/backend/internal/storage"
	"shopchat/backend/internal/storage/storagetest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	Engine   *gin.Engine
	Handler  *handler.Handler
	Registry *chathub.Registry
	Router   *chathub.Router
}

type pingableStore interface {
	storage.MessageStore
	handler.Pinger
}

func newTestApp(store pingableStore, adminSecret string) *testApp {
	reg := chathub.NewRegistry()
	router := chathub.NewRouter(reg, store)
	h := handler.NewHandler(reg, router, history.NewService(store), store, nil, adminSecret)

	engine := gin.New()
	h.RegisterRoutes(engine)

	return &testApp{Engine: engine, Handler: h, Registry: reg, Router: router}
}

func newSQLiteApp(t *testing.T) (*testApp, *storage.Service) {
	store := storagetest.NewSQLite(t)
	return newTestApp(store, ""), store
}

func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, req)
	return w
}

// FailingStore is a testify mock standing in for an unreachable database.
type FailingStore struct {
	mock.Mock
}

func (m *FailingStore) InsertMessage(ctx context.Context, conversationID, senderID, text string, isRead bool) (*models.ChatMessage, error) {
	args := m.Called(conversationID, senderID, text, isRead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *FailingStore) MarkRead(ctx context.Context, messageID uint) error {
	return m.Called(messageID).Error(0)
}

func (m *FailingStore) MarkAllRead(ctx context.Context, conversationID string) error {
	return m.Called(conversationID).Error(0)
}

func (m *FailingStore) ListByConversation(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *FailingStore) CountUnreadFromAdmin(ctx context.Context, conversationID string) (int64, error) {
	args := m.Called(conversationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FailingStore) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

// stubClient is an in-memory relay connection.
type stubClient struct {
	id   string
	key  chathub.Key
	sent chan models.ChatMessage

	mu     sync.Mutex
	closed bool
}

func newStubClient(id string, role models.Role, conversationID string) *stubClient {
	return &stubClient{
		id:   id,
		key:  chathub.Key{Role: role, ConversationID: conversationID},
		sent: make(chan models.ChatMessage, 16),
	}
}

func (s *stubClient) ID() string       { return s.id }
func (s *stubClient) Key() chathub.Key { return s.key }

func (s *stubClient) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *stubClient) Send(msg models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sent <- msg
	return true
}

func (s *stubClient) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
