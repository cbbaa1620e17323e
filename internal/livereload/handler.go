package livereload

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Handler upgrades /livereload requests and attaches the client to the hub.
type Handler struct {
	hub            *Hub
	logger         *slog.Logger
	allowAll       bool
	allowedOrigins map[string]struct{}
	upgrader       websocket.Upgrader
}

func NewHandler(hub *Hub, allowedOrigins []string, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:            hub,
		logger:         logger,
		allowedOrigins: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			h.allowAll = true
			continue
		}
		h.allowedOrigins[trimmed] = struct{}{}
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.allowAll {
		return true
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	_, ok := h.allowedOrigins[parsed.Scheme+"://"+parsed.Host]
	return ok
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an error status.
		h.logger.Debug("livereload upgrade failed", "error", err)
		return
	}

	c := newClient(h.hub, conn, h.logger)
	h.hub.register <- c

	go c.writePump()
	go c.readPump()
}
