package chathub_test

import (
	"net/http"
	"net/http/httptest"
	"shopchat/backend/internal/chathub"
	"shopchat/backend/internal/models"
	"shopchat/backend/internal/storage/storagetest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayServer(t *testing.T, reg *chathub.Registry, router *chathub.Router) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := chathub.ParseHandshakePath(r.URL.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		chathub.NewWebSocketClient(conn, key, router, reg).Run()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketClient_RegistersAndRelays(t *testing.T) {
	store := storagetest.NewSQLite(t)
	reg := chathub.NewRegistry()
	router := chathub.NewRouter(reg, store)
	srv := newRelayServer(t, reg, router)

	customer := dial(t, srv, "/ws/user/42")
	admin := dial(t, srv, "/ws/admin/42")

	require.Eventually(t, func() bool { return reg.Count() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, admin.WriteJSON(map[string]any{"type": "message", "userId": "42", "text": "Hello", "senderId": "admin"}))

	customer.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pushed models.ChatMessage
	require.NoError(t, customer.ReadJSON(&pushed))
	assert.NotZero(t, pushed.ID)
	assert.Equal(t, "42", pushed.UserID)
	assert.Equal(t, models.AdminIdentity, pushed.SenderID)
	assert.Equal(t, "Hello", pushed.Text)
	assert.True(t, pushed.IsRead)

	admin.SetReadDeadline(time.Now().Add(2 * time.Second))
	var echoed models.ChatMessage
	require.NoError(t, admin.ReadJSON(&echoed))
	assert.Equal(t, pushed.ID, echoed.ID)
}

func TestWebSocketClient_GarbageDoesNotCloseConnection(t *testing.T) {
	store := storagetest.NewSQLite(t)
	reg := chathub.NewRegistry()
	router := chathub.NewRouter(reg, store)
	srv := newRelayServer(t, reg, router)

	customer := dial(t, srv, "/ws/user/42")
	admin := dial(t, srv, "/ws/admin/42")
	require.Eventually(t, func() bool { return reg.Count() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, customer.WriteMessage(websocket.TextMessage, []byte("{{{")))
	require.NoError(t, customer.WriteJSON(map[string]any{"type": "message", "userId": 42, "text": "still here"}))

	admin.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pushed models.ChatMessage
	require.NoError(t, admin.ReadJSON(&pushed))
	assert.Equal(t, "still here", pushed.Text)
	assert.Equal(t, "42", pushed.SenderID)
}

func TestWebSocketClient_DisconnectUnregisters(t *testing.T) {
	store := storagetest.NewSQLite(t)
	reg := chathub.NewRegistry()
	router := chathub.NewRouter(reg, store)
	srv := newRelayServer(t, reg, router)

	customer := dial(t, srv, "/ws/user/42")
	require.Eventually(t, func() bool { return reg.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, customer.Close())
	require.Eventually(t, func() bool {
		_, ok := reg.Lookup(chathub.Key{Role: models.RoleCustomer, ConversationID: "42"})
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketClient_SendAfterCloseFails(t *testing.T) {
	client := chathub.NewWebSocketClient(nil, chathub.Key{Role: models.RoleCustomer, ConversationID: "42"}, nil, nil)

	assert.True(t, client.IsOpen())
	assert.True(t, client.Send(models.ChatMessage{ID: 1}))

	client.Close()
	client.Close()

	assert.False(t, client.IsOpen())
	assert.False(t, client.Send(models.ChatMessage{ID: 2}))
	assert.NotEmpty(t, client.ID())
}
