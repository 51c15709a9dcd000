package redisx

import (
	"context"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var _ ports.EventSubscriber = (*Subscriber)(nil)

// Subscriber opens realtime streams on the channel the Publisher writes to.
type Subscriber struct {
	rdb     *redis.Client
	channel string
}

func NewSubscriber(rdb *redis.Client, channel string) *Subscriber {
	return &Subscriber{rdb: rdb, channel: channel}
}

// Subscription delivers payloads until Close is called or the context of
// Subscribe is done.
type Subscription struct {
	pubsub   *redis.PubSub
	messages chan []byte
}

// Subscribe returns once Redis has confirmed the subscription, so no message
// published after it returns is missed.
func (s *Subscriber) Subscribe(ctx context.Context) (ports.EventStream, error) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errs.NewExternalServiceError("redis", err)
	}

	sub := &Subscription{
		pubsub:   pubsub,
		messages: make(chan []byte),
	}
	go sub.forward(ctx)
	return sub, nil
}

func (s *Subscription) forward(ctx context.Context) {
	defer close(s.messages)

	in := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case s.messages <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}

// Messages is closed when the subscription ends.
func (s *Subscription) Messages() <-chan []byte {
	return s.messages
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}
