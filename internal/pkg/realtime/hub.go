package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
)

// Event names pushed to connected clients
const (
	EventIssueUpdated = "issue_updated"
	EventNotification = "notification"
)

// Event is the wire envelope for a pushed message
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// IssueUpdatedPayload carries a status transition to the issue's creator
type IssueUpdatedPayload struct {
	IssueID   int64              `json:"issue_id"`
	NewStatus models.IssueStatus `json:"new_status"`
	Comment   string             `json:"comment,omitempty"`
}

// NotificationPayload drives the client's notification badge
type NotificationPayload struct {
	Type    models.NotificationType `json:"type"`
	Message string                  `json:"message"`
}

// userEvent pairs a serialized event with its recipient
type userEvent struct {
	userID int64
	data   []byte
}

// Hub maintains the set of active clients keyed by user ID and delivers
// per-user push events. Membership is process-local and rebuilt from scratch
// on restart; a client that is not connected when an event is emitted simply
// misses it, the persisted notification row is the durability backstop.
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	// Outbound events destined for a single user's connections
	emit chan *userEvent

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		emit:       make(chan *userEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event delivery
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.emit:
			h.deliver(event)
		}
	}
}

// EmitToUser pushes an event to every open connection of a user.
// If the user has no registered connection the event is dropped.
func (h *Hub) EmitToUser(userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Str("event", event.Event).Msg("Failed to marshal push event")
		return
	}
	h.emit <- &userEvent{userID: userID, data: data}
}

// IsOnline reports whether the user has at least one registered connection
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ClientCount returns the number of open connections for a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.userID
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[*Client]bool)
	}
	h.clients[userID][client] = true

	h.logger.Info().
		Int64("userID", userID).
		Msg("Realtime client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := client.userID
	if _, ok := h.clients[userID]; ok {
		if _, ok := h.clients[userID][client]; ok {
			delete(h.clients[userID], client)
			close(client.send)

			// If no more connections for this user, clean up
			if len(h.clients[userID]) == 0 {
				delete(h.clients, userID)
			}

			h.logger.Info().
				Int64("userID", userID).
				Msg("Realtime client unregistered")
		}
	}
}

// deliver sends a serialized event to all of the recipient's connections
func (h *Hub) deliver(event *userEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[event.userID]))
	for client := range h.clients[event.userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		h.logger.Debug().
			Int64("userID", event.userID).
			Msg("No connected clients, push event dropped")
		return
	}

	for _, client := range clients {
		select {
		case client.send <- event.data:
		default:
			// Send buffer full, the client is slow or gone
			h.unregisterClient(client)
		}
	}
}
