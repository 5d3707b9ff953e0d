package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/pickduel/backend/internal/matchmaking"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn    *websocket.Conn
	userID  string
	matchID int // 0 when not attached to a match room
	send    chan []byte
	db      *sqlx.DB
}

// WSMessage is the envelope for client-to-server socket messages.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Serve upgrades the request and runs the client's pumps. matchID is 0
// for connections outside a match room (matchmaking, invalidation).
func Serve(db *sqlx.DB, w http.ResponseWriter, r *http.Request, userID string, matchID int) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		conn:    conn,
		userID:  userID,
		matchID: matchID,
		send:    make(chan []byte, 64),
		db:      db,
	}
	GameHub.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed — connection is being replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for user %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for user %s: %v", c.userID, err)
				return
			}
		}
	}
}

// readPump handles inbound messages until the connection drops.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for user %s: %v", c.userID, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("message-error", "invalid message")
			continue
		}

		switch msg.Type {
		case "send-message":
			c.handleSendMessage(msg.Data)
		case "cancel-search":
			c.handleCancelSearch(msg.Data)
		default:
			log.Printf("[WS] Unknown message type %q from user %s", msg.Type, c.userID)
		}
	}
}

// handleSendMessage persists a chat message and broadcasts it to the
// match room.
func (c *Client) handleSendMessage(data json.RawMessage) {
	if c.matchID == 0 {
		c.sendError("message-error", "not connected to a match")
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Content == "" {
		c.sendError("message-error", "invalid message content")
		return
	}
	if len(payload.Content) > 500 {
		c.sendError("message-error", "message too long")
		return
	}

	var id int
	var createdAt time.Time
	err := c.db.QueryRowx(`
		INSERT INTO messages (match_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.matchID, c.userID, payload.Content).Scan(&id, &createdAt)
	if err != nil {
		log.Printf("[WS] Failed to persist message from user %s: %v", c.userID, err)
		c.sendError("message-error", "failed to send message")
		return
	}

	GameHub.BroadcastToMatch(c.matchID, map[string]interface{}{
		"type": "message-received",
		"data": map[string]interface{}{
			"id":         id,
			"match_id":   c.matchID,
			"user_id":    c.userID,
			"content":    payload.Content,
			"created_at": createdAt,
		},
	})
}

// handleCancelSearch removes the user's queued matchmaking ticket.
// Best-effort: if pairing already consumed the ticket this is a no-op.
func (c *Client) handleCancelSearch(data json.RawMessage) {
	var payload struct {
		League string `json:"league"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.League == "" {
		c.sendError("message-error", "invalid league")
		return
	}

	if err := matchmaking.Cancel(context.Background(), c.db, c.userID, payload.League); err != nil {
		log.Printf("[WS] Failed to cancel search for user %s: %v", c.userID, err)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(event, message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":  event,
		"error": message,
	})
	select {
	case c.send <- data:
	default:
	}
}
