package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OutboxMessage is a stored domain event waiting to be fanned out to
// connected clients.
type OutboxMessage struct {
	ID         kernel.UUID
	EventType  string
	OrderID    kernel.UUID
	Payload    []byte
	OccurredAt time.Time
}

// OutboxRepository stores domain events in the same transaction as the state
// change that raised them.
type OutboxRepository interface {
	Append(ctx context.Context, events []order.Event) error

	// FetchUnpublished returns up to limit unpublished messages, oldest first,
	// and locks them so concurrent relays skip them.
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// EventPublisher fans a message out to realtime subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}

// EventStream delivers realtime payloads until closed.
type EventStream interface {
	Messages() <-chan []byte
	Close() error
}

// EventSubscriber opens realtime streams for connected clients.
type EventSubscriber interface {
	Subscribe(ctx context.Context) (EventStream, error)
}
