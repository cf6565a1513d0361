package worker

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// Deliverer receives relayed events, normally an *events.Hub.
type Deliverer interface {
	Deliver(event events.Event) (delivered, dropped int)
}

// RelayWorker forwards TicketUpdated events from Redis pub/sub to the
// subscribers connected to this instance.
type RelayWorker struct {
	client  redis.UniversalClient
	channel string
	hub     Deliverer
	logger  *zap.Logger
}

// NewRelayWorker builds the worker.
func NewRelayWorker(client redis.UniversalClient, channel string, hub Deliverer, logger *zap.Logger) *RelayWorker {
	return &RelayWorker{client: client, channel: channel, hub: hub, logger: logger}
}

// Run blocks until ctx is cancelled.
func (w *RelayWorker) Run(ctx context.Context) {
	pubsub := w.client.Subscribe(ctx, w.channel)
	defer pubsub.Close()

	w.logger.Info("ticket update relay started", zap.String("channel", w.channel))
	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ticket update relay stopped")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			w.handle(msg.Payload)
		}
	}
}

func (w *RelayWorker) handle(payload string) {
	event, err := events.DecodeEvent(payload)
	if err != nil {
		w.logger.Warn("discarding malformed ticket update", zap.Error(err))
		return
	}
	w.hub.Deliver(event)
}

// Start runs the worker in its own goroutine.
func Start(ctx context.Context, w *RelayWorker) {
	if w == nil {
		return
	}
	go w.Run(ctx)
}
