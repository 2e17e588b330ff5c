package hub

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single subscriber connection. It's essentially a
// channel that the SSE handler will listen to.
type Client chan []byte

// ChatRoom is the club-wide chat room key.
const ChatRoom = "chat"

// SessionRoom is the room key for one play session's registration events.
func SessionRoom(sessionID uint) string {
	return fmt.Sprintf("session:%d", sessionID)
}

// Hub manages all active rooms and their clients.
type Hub struct {
	rooms map[string]map[Client]bool
	mu    sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a new client to a room.
func (h *Hub) Subscribe(room string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[Client]bool)
	}
	h.rooms[room][client] = true
}

// Unsubscribe removes a client from a room.
func (h *Hub) Unsubscribe(room string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[room]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// Broadcast sends an event to all clients in a room.
func (h *Hub) Broadcast(room string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.rooms[room]; ok {
		messageBytes, err := json.Marshal(event)
		if err != nil {
			return
		}

		for client := range clients {
			// Use a non-blocking send to prevent a slow client from blocking the hub.
			select {
			case client <- messageBytes:
			default:
				// Client channel is full, maybe they are disconnected or slow.
				// The unsubscribe logic will handle cleaning this up eventually.
			}
		}
	}
}
