// Package events fans server-sent events out to connected back-office clients.
package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sjperalta/backoffice-api/internal/metrics"
	"github.com/sjperalta/backoffice-api/pkg/logger"
)

const defaultBufferSize = 16

// Message is one event queued for a subscriber
type Message struct {
	Event string
	Data  []byte
	At    time.Time
}

// Subscription is one open event stream
type Subscription struct {
	ID     string
	UserID uint
	C      <-chan Message

	ch chan Message
}

// Hub tracks open subscriptions. Each Hub is independent; tests build their own.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]*Subscription
	bufferSize int
	dropped    atomic.Int64
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events
func NewHub(bufferSize int) *Hub {
	if bufferSize < 1 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:       make(map[string]*Subscription),
		bufferSize: bufferSize,
	}
}

// Subscribe opens a stream for userID (0 for anonymous)
func (h *Hub) Subscribe(userID uint) *Subscription {
	ch := make(chan Message, h.bufferSize)
	sub := &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      ch,
		ch:     ch,
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	n := len(h.subs)
	h.mu.Unlock()

	metrics.SetSSEConnections(n)
	logger.Debug("Event stream opened", "conn_id", sub.ID, "user_id", userID, "connections", n)
	return sub
}

// Unsubscribe closes the stream. Calling it twice is harmless.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	_, ok := h.subs[sub.ID]
	if ok {
		delete(h.subs, sub.ID)
		close(sub.ch)
	}
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		metrics.SetSSEConnections(n)
		logger.Debug("Event stream closed", "conn_id", sub.ID, "connections", n)
	}
}

// Broadcast sends the event to every subscriber and returns how many received it
func (h *Hub) Broadcast(event string, data any) int {
	return h.send(event, data, func(*Subscription) bool { return true })
}

// SendToUser sends the event to the subscriptions of one user
func (h *Hub) SendToUser(userID uint, event string, data any) int {
	return h.send(event, data, func(s *Subscription) bool { return s.UserID == userID })
}

func (h *Hub) send(event string, data any, match func(*Subscription) bool) int {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Warn("Dropping unserializable event", "event", event, "error", err)
		return 0
	}
	msg := Message{Event: event, Data: payload, At: time.Now()}

	// Sends never block: a full buffer drops the event for that subscriber.
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, sub := range h.subs {
		if !match(sub) {
			continue
		}
		select {
		case sub.ch <- msg:
			delivered++
		default:
			h.dropped.Add(1)
			logger.Warn("Event dropped for slow subscriber", "event", event, "conn_id", sub.ID)
		}
	}
	return delivered
}

// ConnectionCount returns the number of open streams
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many events were discarded for full buffers
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
