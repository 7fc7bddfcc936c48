package hub

import (
	"context"
	"log"
	"sync"
)

// Hub manages WebSocket clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	unregister chan *Client
	done       chan struct{}
	closed     bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register adds a new client to the hub. The client can be sent to as soon
// as Register returns. After the hub stopped, the client is closed instead.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(c.send)
		return
	}
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	log.Printf("Client %s connected (total: %d)", c.id, n)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// SendTo queues msg for one client. It reports false when the client is gone
// or its buffer is full.
func (h *Hub) SendTo(c *Client, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToSlot sends a message to all clients viewing slot.
func (h *Hub) BroadcastToSlot(msg []byte, slot int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.Slot() == slot {
			select {
			case client.send <- msg:
			default:
				// Client send buffer full, disconnect
				go h.Unregister(client)
			}
		}
	}
}

// Run starts the hub's main loop until ctx is cancelled. Remaining clients
// are closed on the way out.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("Client %s disconnected (total: %d)", client.id, n)

		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return nil
		}
	}
}
