// Package feed pushes new widget submissions to connected dashboards over
// WebSocket.
package feed

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ashureev/widget-assist/internal/domain"
	"github.com/coder/websocket"
)

// DefaultBufferSize is the number of undelivered events a subscriber may hold
// before it is dropped.
const DefaultBufferSize = 16

// Event is the JSON frame sent to subscribers.
type Event struct {
	Type       string             `json:"type"`
	Submission *domain.Submission `json:"submission"`
}

type subscriber struct {
	id     int64
	ch     chan []byte
	reason websocket.StatusCode
}

// Hub fans submissions out to subscribers. Publish never blocks: a
// subscriber whose buffer is full is dropped.
type Hub struct {
	mu      sync.Mutex
	subs    map[int64]*subscriber
	nextID  int64
	buffer  int
	closed  bool
	origins []string
	logger  *slog.Logger
}

// NewHub creates a hub. allowedOrigins follows the CORS configuration; "*"
// accepts any origin.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:    make(map[int64]*subscriber),
		buffer:  DefaultBufferSize,
		origins: allowedOrigins,
		logger:  logger,
	}
}

// Publish sends sub to every subscriber.
func (h *Hub) Publish(sub *domain.Submission) {
	data, err := json.Marshal(Event{Type: "submission", Submission: sub})
	if err != nil {
		h.logger.Error("Failed to marshal feed event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, s := range h.subs {
		select {
		case s.ch <- data:
		default:
			h.logger.Warn("Dropping slow feed subscriber", "subscriber_id", id)
			h.removeLocked(s, websocket.StatusPolicyViolation)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, s := range h.subs {
		h.removeLocked(s, websocket.StatusGoingAway)
	}
}

func (h *Hub) subscribe() (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}
	h.nextID++
	s := &subscriber{id: h.nextID, ch: make(chan []byte, h.buffer)}
	h.subs[s.id] = s
	return s, true
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, websocket.StatusNormalClosure)
}

// removeLocked closes s.ch exactly once; h.mu must be held.
func (h *Hub) removeLocked(s *subscriber, reason websocket.StatusCode) {
	if _, ok := h.subs[s.id]; !ok {
		return
	}
	delete(h.subs, s.id)
	s.reason = reason
	close(s.ch)
}
