package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"concentration-server/config"
	"concentration-server/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SessionManager defines what the Hub needs from the session manager.
type SessionManager interface {
	Open(send chan []byte) *session.Session
	Close(id string) error
	Count() int
}

// Hub maintains the set of active clients. Each client owns one session.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Sessions   SessionManager
	Config     *config.Config

	done chan struct{} // closed when Run returns
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, sessions SessionManager) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Sessions:   sessions,
		Config:     cfg,
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), Run closes every client's
// session and returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "hub", "clients", len(h.Clients))
			for client := range h.Clients {
				h.remove(client)
			}
			return
		case client := <-h.Register:
			h.Clients[client] = true
			slog.Info("client connected", "tag", "hub", "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				h.remove(client)
				slog.Info("client disconnected", "tag", "hub", "clients", len(h.Clients))
			}
		}
	}
}

// remove stops the client's session before closing its send channel so the
// session never writes to a closed channel.
func (h *Hub) remove(client *Client) {
	delete(h.Clients, client)
	if client.Session != nil {
		if err := h.Sessions.Close(client.Session.ID); err != nil {
			slog.Warn("closing session", "tag", "hub", "session", client.Session.ID, "err", err)
		}
	}
	close(client.Send)
}

// ServeWS handles WebSocket upgrade requests, opens a session and starts the pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "tag", "ws", "err", err)
		return
	}

	client := &Client{
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	client.Session = h.Sessions.Open(client.Send)

	select {
	case h.Register <- client:
	case <-h.done:
		_ = h.Sessions.Close(client.Session.ID)
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
