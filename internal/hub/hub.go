package hub

import (
	"context"
	"encoding/json"
	"sync"

	"campusnet/backend/internal/events"

	"go.uber.org/zap"
)

// Client is one open event stream of a user. The SSE handler reads from it
// until it is closed.
type Client chan []byte

// Hub tracks the open streams of every connected user.
type Hub struct {
	users map[uint]map[Client]bool
	mu    sync.RWMutex
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		users: make(map[uint]map[Client]bool),
		log:   log,
	}
}

// Subscribe registers a new stream for userID.
func (h *Hub) Subscribe(userID uint) Client {
	client := make(Client, 16)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
	return client
}

// Unsubscribe removes a stream and closes it.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Publish sends event to every stream of its recipient. Events without a
// recipient are ignored.
func (h *Hub) Publish(_ context.Context, event events.Event) error {
	if event.RecipientID == 0 {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[event.RecipientID]
	if !ok {
		return nil
	}

	message, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for client := range clients {
		// Slow readers lose events instead of blocking the publisher.
		select {
		case client <- message:
		default:
			h.log.Warn("dropping event for slow client",
				zap.Uint("user_id", event.RecipientID),
				zap.String("type", string(event.Type)))
		}
	}
	return nil
}
