package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type HandlerConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongTimeout     time.Duration
	AllowedOrigins  []string
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	config   HandlerConfig
}

func NewHandler(hub *Hub, config HandlerConfig) *Handler {
	if config.PongTimeout <= 0 {
		config.PongTimeout = 60 * time.Second
	}
	if config.PingInterval <= 0 || config.PingInterval >= config.PongTimeout {
		config.PingInterval = (config.PongTimeout * 9) / 10
	}

	h := &Handler{hub: hub, config: config}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  config.ReadBufferSize,
		WriteBufferSize: config.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Serve upgrades the request and attaches an authenticated principal to the
// hub. Authentication happens before this is called.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, principalID, role string, isAdmin bool) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := newClient(h.hub, conn, principalID, role, isAdmin, h.config.PingInterval, h.config.PongTimeout)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

// checkOrigin allows same-origin requests, requests without an Origin
// header, and the configured origins. "*" allows everything.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
