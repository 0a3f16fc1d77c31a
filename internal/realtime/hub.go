package realtime

import (
	"encoding/json"
	"sync"

	"scholardocs/internal/shared/telemetry"
)

// Event is one frame pushed to a client.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub tracks live connections grouped into per-user rooms. Room
// membership is ephemeral in-process state, rebuilt on reconnect; the
// persisted notification record is the durable fallback for offline users.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool // userID -> clients

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub constructs a Hub. Call Run in a goroutine before serving
// connections.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes register/unregister requests until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case <-h.done:
			return
		}
	}
}

// Stop terminates Run and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.rooms {
		for client := range clients {
			close(client.send)
		}
		delete(h.rooms, userID)
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[client.userID]; !ok {
		h.rooms[client.userID] = make(map[*Client]bool)
	}
	h.rooms[client.userID][client] = true
	telemetry.Info("realtime.client_joined", map[string]any{"user_id": client.userID})
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.userID)
	}
	telemetry.Info("realtime.client_left", map[string]any{"user_id": client.userID})
}

// Publish delivers an event to every live connection in one user's room.
// No-op when the user is offline; a slow client is dropped rather than
// allowed to block the caller.
func (h *Hub) Publish(userID, event string, payload any) {
	data, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		telemetry.Error("realtime.marshal_failed", map[string]any{"event": event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	var stale []*Client
	for client := range h.rooms[userID] {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.remove(client)
	}
}

// Broadcast delivers an event to every connected client in every room.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		telemetry.Error("realtime.marshal_failed", map[string]any{"event": event, "error": err.Error()})
		return
	}

	h.mu.RLock()
	var stale []*Client
	for _, clients := range h.rooms {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				stale = append(stale, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.remove(client)
	}
}

// ClientCount reports how many live connections a user has.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
