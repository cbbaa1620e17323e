package livereload

import (
	"context"
	"log/slog"
	"sync"
)

// reloadMessage is what connected pages receive when content changes.
var reloadMessage = []byte(`{"type":"reload"}`)

// Hub tracks connected live-reload clients and fans reload events out to
// them. Must be started with Run before use.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan struct{}
	register   chan *client
	unregister chan *client

	mu     sync.Mutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan struct{}, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		logger:     logger,
	}
}

// Run owns the client registry until ctx is cancelled. Runs in its own
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("livereload client connected", "total_clients", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- reloadMessage:
				default:
					// Slow client; drop it rather than block the hub.
					close(c.send)
					delete(h.clients, c)
					h.logger.Warn("livereload client too slow, disconnected")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a reload notification for all connected clients. Never
// blocks the caller.
func (h *Hub) Broadcast() {
	select {
	case h.broadcast <- struct{}{}:
	default:
		h.logger.Warn("livereload broadcast channel full, dropping event")
	}
}
