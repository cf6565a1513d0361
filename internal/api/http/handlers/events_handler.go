package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// EventsHandler streams TicketUpdated notifications as Server-Sent Events.
type EventsHandler struct {
	hub       *events.Hub
	keepAlive time.Duration
	logger    *zap.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewEventsHandler constructs handler.
func NewEventsHandler(hub *events.Hub, keepAlive time.Duration, logger *zap.Logger) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{hub: hub, keepAlive: keepAlive, logger: logger, done: make(chan struct{})}
}

// Close ends every open stream so the server can shut down.
func (h *EventsHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Stream GET /api/events.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe()
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		fmt.Fprintf(w, ": connected %s\n\n", sub.ID)
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case event, ok := <-sub.Events:
				if !ok {
					return
				}
				if err := h.write(w, event); err != nil {
					h.logger.Debug("event stream closed", zap.String("subscriber_id", sub.ID), zap.Error(err))
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case <-h.done:
				h.drain(w, sub)
				return
			}
		}
	})
	return nil
}

// drain writes whatever is already buffered for the subscriber.
func (h *EventsHandler) drain(w *bufio.Writer, sub *events.Subscription) {
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok || h.write(w, event) != nil {
				return
			}
		default:
			return
		}
	}
}

func (h *EventsHandler) write(w *bufio.Writer, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
		return err
	}
	return w.Flush()
}
