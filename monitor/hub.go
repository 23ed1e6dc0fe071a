// Package monitor is the auxiliary debug channel: a websocket broadcast hub
// that fans out modem events and received samples to any connected viewer.
package monitor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is the envelope sent to viewers. Viewers switch on Type.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// DefaultWriteTimeout bounds one write to a viewer.
const DefaultWriteTimeout = 10 * time.Second

// Client wraps a websocket connection with a per-connection write mutex.
// Gorilla WebSocket requires that writes are not concurrent on the same Conn.
type Client struct {
	conn    *websocket.Conn
	mu      sync.Mutex
	timeout time.Duration
}

// Send writes a message as JSON to this client.
func (c *Client) Send(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.write(b)
}

func (c *Client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub is an in-memory set of viewers.
type Hub struct {
	// WriteTimeout bounds each write to a viewer. Zero means
	// DefaultWriteTimeout.
	WriteTimeout time.Duration

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Add registers a connection with the hub and returns its Client wrapper.
func (h *Hub) Add(conn *websocket.Conn) *Client {
	timeout := h.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	c := &Client{conn: conn, timeout: timeout}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Remove unregisters a client and closes its connection.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Len is the number of registered viewers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every viewer. The hub lock is not held while
// writing; a viewer whose write fails or times out is removed.
func (h *Hub) Broadcast(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(b); err != nil {
			h.Remove(c)
		}
	}
}
