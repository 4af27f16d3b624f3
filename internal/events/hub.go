// Package events carries change notifications from the stores to whatever
// renders them. The stores are the only publishers; subscribers react by
// re-reading store state, so the core never depends on a specific UI.
package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Topic string

const (
	TopicFavorites Topic = "favorites"
	TopicTimeline  Topic = "timeline"
)

type Event struct {
	Topic Topic     `json:"topic"`
	At    time.Time `json:"at"`
}

// wsClient wraps a connection with a write mutex. The stores publish from
// handler goroutines and from background detail fetches, and
// gorilla/websocket allows at most one concurrent writer per connection.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans events out to in-process subscribers and connected websocket
// clients. One websocket connection per user; reconnecting replaces the
// old connection.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*wsClient
	subscribers map[int64]chan Event
	nextSubID   int64
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*wsClient),
		subscribers: make(map[int64]chan Event),
	}
}

// Subscribe returns a channel of events and a cancel function. Slow
// subscribers drop events rather than block a publisher; a dropped event
// is harmless because subscribers re-read state, they don't replay deltas.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextSubID++
	id := h.nextSubID
	ch := make(chan Event, 8)
	h.subscribers[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if existing, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Publish notifies every subscriber and websocket client that state under
// topic changed.
func (h *Hub) Publish(topic Topic) {
	event := Event{Topic: topic, At: time.Now()}

	h.mu.RLock()
	// Send while holding the lock so a concurrent cancel cannot close a
	// channel mid-send; sends are non-blocking, so this stays cheap.
	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	clients := make(map[int64]*wsClient, len(h.connections))
	for userID, client := range h.connections {
		clients[userID] = client
	}
	h.mu.RUnlock()

	for userID, client := range clients {
		if err := client.writeJSON(event); err != nil {
			h.UnregisterConn(userID)
		}
	}
}

func (h *Hub) RegisterConn(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.conn.Close()
	}
	h.connections[userID] = &wsClient{conn: conn}
}

func (h *Hub) UnregisterConn(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.connections[userID]; exists && client != nil {
		_ = client.conn.Close()
		delete(h.connections, userID)
	}
}

func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, client := range h.connections {
		if client != nil {
			_ = client.conn.Close()
		}
		delete(h.connections, userID)
	}
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}
