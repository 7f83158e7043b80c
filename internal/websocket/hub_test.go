package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialSession(t *testing.T, hub *Hub, sessionID string) *gorilla.Conn {
	t.Helper()
	upgrader := NewUpgrader([]string{"*"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(w, r, upgrader, hub, sessionID)
	}))
	t.Cleanup(server.Close)

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return hub.Count(sessionID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestBroadcastReachesSessionSocket(t *testing.T) {
	hub := NewHub()
	conn := dialSession(t, hub, "s1")

	hub.BroadcastBalance("s1", BalanceUpdate{SessionID: "s1", Balance: 49000, Display: "₦49,000", Points: 260})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got BalanceUpdate
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, int64(49000), got.Balance)
	assert.Equal(t, int64(260), got.Points)
}

func TestBroadcastIsScopedToSession(t *testing.T) {
	hub := NewHub()
	conn := dialSession(t, hub, "s1")

	hub.BroadcastBalance("other", BalanceUpdate{Balance: 1})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestDisconnectClosesSockets(t *testing.T) {
	hub := NewHub()
	conn := dialSession(t, hub, "s1")

	hub.Disconnect("s1")
	assert.Zero(t, hub.Count("s1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestUpgraderOriginCheck(t *testing.T) {
	upgrader := NewUpgrader([]string{"https://app.example"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, upgrader.CheckOrigin(req))
	req.Header.Set("Origin", "https://app.example")
	assert.True(t, upgrader.CheckOrigin(req))
}
