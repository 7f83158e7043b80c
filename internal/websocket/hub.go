package websocket

import (
	"encoding/json"
	"sync"
	"time"
)

// BalanceUpdate is pushed to a session's sockets after every committed wallet change.
type BalanceUpdate struct {
	SessionID string    `json:"session_id"`
	Balance   int64     `json:"balance"`
	Display   string    `json:"display"`
	Points    int64     `json:"points"`
	EntryID   string    `json:"entry_id,omitempty"`
	At        time.Time `json:"at"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(sessionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*Client]struct{})
	}
	h.clients[sessionID][client] = struct{}{}
}

func (h *Hub) Unregister(sessionID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		return
	}
	if _, ok := h.clients[sessionID][client]; !ok {
		return
	}
	delete(h.clients[sessionID], client)
	close(client.send)
	if len(h.clients[sessionID]) == 0 {
		delete(h.clients, sessionID)
	}
}

// Disconnect closes every socket of a session, used when the session is torn down.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[sessionID] {
		close(client.send)
	}
	delete(h.clients, sessionID)
}

func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) BroadcastBalance(sessionID string, update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.Deliver(sessionID, payload)
}

// Deliver hands an encoded payload to every socket of the session. Slow sockets drop it.
func (h *Hub) Deliver(sessionID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[sessionID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
