package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"concentration-server/session"
	"concentration-server/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client is a middleman between the websocket connection and its session.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Session *session.Session
}

// ReadPump pumps messages from the websocket connection into the session.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "select_card":
		c.handleSelectCard(envelope.Raw)
	case "restart":
		c.submit(session.Action{Type: session.ActionRestart})
	case "autoplay":
		c.handleAutoplay(envelope.Raw)
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleSelectCard(raw json.RawMessage) {
	var msg SelectCardMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Index == nil {
		c.sendError("Invalid select_card message.")
		return
	}
	c.submit(session.Action{Type: session.ActionSelectCard, Index: *msg.Index})
}

func (c *Client) handleAutoplay(raw json.RawMessage) {
	var msg AutoplayMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid autoplay message.")
		return
	}
	c.submit(session.Action{Type: session.ActionSetAutoplay, Enabled: msg.Enabled})
}

func (c *Client) submit(action session.Action) {
	if err := c.Session.Submit(action); err != nil {
		slog.Debug("dropping action for stopped session", "tag", "ws", "session", c.Session.ID, "err", err)
	}
}

func (c *Client) sendError(message string) {
	wsutil.SendJSON(c.Send, session.ErrorMsg{Type: "error", Message: message})
}
