package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/observability"
)

const publishTimeout = 2 * time.Second

// RedisPublisher sends events through a Redis pub/sub channel so that every
// API instance can relay them to its own subscribers.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewRedisPublisher creates a publisher bound to channel.
func NewRedisPublisher(client redis.UniversalClient, channel string, logger *zap.Logger, metrics *observability.Metrics) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger, metrics: metrics}
}

// Publish sends the event. Errors are logged and swallowed; the request that
// triggered the publish has already committed.
func (p *RedisPublisher) Publish(ctx context.Context, ticketID int64) {
	payload, err := json.Marshal(NewTicketUpdated(ticketID))
	if err != nil {
		p.fail(ticketID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.fail(ticketID, err)
	}
}

func (p *RedisPublisher) fail(ticketID int64, err error) {
	p.metrics.RecordPublishFailure()
	p.logger.Warn("ticket update publish failed",
		zap.Int64("ticket_id", ticketID),
		zap.String("channel", p.channel),
		zap.Error(err))
}

// DecodeEvent parses a payload produced by RedisPublisher.
func DecodeEvent(payload string) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Event{}, err
	}
	if event.Type == "" {
		event.Type = EventTicketUpdated
	}
	return event, nil
}
