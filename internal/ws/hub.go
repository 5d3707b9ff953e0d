package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected clients, indexed by user and by
// match room.
type Hub struct {
	clients    map[string]map[*Client]bool // userID -> connections
	matchRooms map[int]map[*Client]bool    // matchID -> connections
	mu         sync.RWMutex
}

// GameHub is the process-wide hub instance.
var GameHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		matchRooms: make(map[int]map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true

	if c.matchID != 0 {
		if h.matchRooms[c.matchID] == nil {
			h.matchRooms[c.matchID] = make(map[*Client]bool)
		}
		h.matchRooms[c.matchID][c] = true
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	if c.matchID != 0 {
		if room, ok := h.matchRooms[c.matchID]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.matchRooms, c.matchID)
			}
		}
	}
	close(c.send)
}

// SendToUser sends a message to all of a user's connections.
func (h *Hub) SendToUser(userID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send buffer full for user %s, dropping message", userID)
		}
	}
}

// BroadcastToMatch sends a message to every client in a match room.
func (h *Hub) BroadcastToMatch(matchID int, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.matchRooms[matchID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send buffer full in match %d, dropping message", matchID)
		}
	}
}

// BroadcastAll sends a message to every connected client. Used for
// invalidation events, which clients filter by query key.
func (h *Hub) BroadcastAll(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.clients {
		for client := range conns {
			select {
			case client.send <- data:
			default:
			}
		}
	}
}
