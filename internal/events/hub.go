package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/observability"
)

const defaultSubscriberBuffer = 16

// Hub fans events out to the subscribers connected to this process.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	buffer      int
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// Subscription is one connected listener.
type Subscription struct {
	ID     string
	Events <-chan Event
	hub    *Hub
	once   sync.Once
}

// NewHub creates a hub whose subscribers each buffer up to buffer events.
func NewHub(buffer int, logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subscribers: make(map[string]chan Event),
		buffer:      buffer,
		logger:      logger,
		metrics:     metrics,
	}
}

// Subscribe registers a new listener. Events published before this call are
// never delivered to it.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.buffer)
	id := uuid.NewString()

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	h.logger.Debug("subscriber connected", zap.String("subscriber_id", id))
	return &Subscription{ID: id, Events: ch, hub: h}
}

// Close detaches the subscription and closes its channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s.ID)
	})
}

func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		close(ch)
		h.logger.Debug("subscriber disconnected", zap.String("subscriber_id", id))
	}
}

// SubscriberCount returns the number of connected listeners.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish delivers a TicketUpdated event for ticketID to every subscriber.
func (h *Hub) Publish(_ context.Context, ticketID int64) {
	h.Deliver(NewTicketUpdated(ticketID))
}

// Deliver hands event to each subscriber without waiting. A subscriber whose
// buffer is full misses the event; it is counted and logged, never retried.
func (h *Hub) Deliver(event Event) (delivered, dropped int) {
	h.mu.RLock()
	for id, ch := range h.subscribers {
		select {
		case ch <- event:
			delivered++
		default:
			dropped++
			h.logger.Warn("subscriber too slow, event dropped",
				zap.String("subscriber_id", id),
				zap.Int64("ticket_id", event.TicketID))
		}
	}
	h.mu.RUnlock()

	h.metrics.RecordBroadcast(delivered, dropped)
	return delivered, dropped
}
