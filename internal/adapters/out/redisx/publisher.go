package redisx

import (
	"context"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher implements ports.EventPublisher on a Redis pub/sub channel.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(rdb *redis.Client, channel string) *Publisher {
	return &Publisher{rdb: rdb, channel: channel}
}

// Publish sends the stored payload unchanged. A message with no subscribers
// is still a successful publish.
func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	if err := p.rdb.Publish(ctx, p.channel, msg.Payload).Err(); err != nil {
		return errs.NewExternalServiceError("redis", err)
	}
	return nil
}
