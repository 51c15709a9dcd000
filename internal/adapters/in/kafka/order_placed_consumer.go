package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

const (
	minRetryDelay = 200 * time.Millisecond
	maxRetryDelay = 5 * time.Second
)

// MessageReader is the subset of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error)
}

// Deduplicator remembers events whose order is already stored. Keys are
// marked only after the create handler committed, so a crash before that
// point leaves the event unmarked and its redelivery is handled again.
// A nil Deduplicator disables the check; the create handler still refuses a
// second order for the same reference.
type Deduplicator interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkProcessed(ctx context.Context, key string) error
}

// NewReader returns a group reader with manual commits.
func NewReader(brokers []string, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	})
}

// OrderPlacedConsumer turns order-placed events into CreateOrder commands.
// Offsets are committed only after an event was handled, so delivery is at
// least once. Malformed events are logged and committed.
type OrderPlacedConsumer struct {
	reader  MessageReader
	handler CreateOrderHandler
	dedup   Deduplicator
	logger  *slog.Logger
}

func NewOrderPlacedConsumer(
	reader MessageReader,
	handler CreateOrderHandler,
	dedup Deduplicator,
	logger *slog.Logger,
) *OrderPlacedConsumer {
	return &OrderPlacedConsumer{
		reader:  reader,
		handler: handler,
		dedup:   dedup,
		logger:  logger.With("component", "order_placed_consumer"),
	}
}

// Run consumes until ctx is cancelled. A message that fails is retried with
// backoff before the next one is fetched.
func (c *OrderPlacedConsumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.Warn("closing reader", "error", err)
		}
	}()

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if !c.handleWithRetry(ctx, m) {
			return nil
		}

		if err = c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("commit failed", "partition", m.Partition, "offset", m.Offset, "error", err)
		}
	}
}

// handleWithRetry returns false if ctx ended before the message was handled.
func (c *OrderPlacedConsumer) handleWithRetry(ctx context.Context, m kafka.Message) bool {
	delay := minRetryDelay
	for {
		err := c.HandleMessage(ctx, m)
		if err == nil {
			return true
		}

		c.logger.Error("order placed event failed",
			"partition", m.Partition,
			"offset", m.Offset,
			"retry_in", delay.String(),
			"error", err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// HandleMessage processes one message. A nil result means the offset may be
// committed.
func (c *OrderPlacedConsumer) HandleMessage(ctx context.Context, m kafka.Message) error {
	var event OrderPlacedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		c.logger.Warn("dropping undecodable event", "offset", m.Offset, "error", err)
		return nil
	}

	cmd, err := event.toCommand()
	if err != nil {
		c.logger.Warn("dropping invalid event", "event_id", event.EventID, "order_ref", event.OrderRef, "error", err)
		return nil
	}

	key := event.dedupKey()
	if c.dedup != nil {
		seen, seenErr := c.dedup.Seen(ctx, key)
		switch {
		case seenErr != nil:
			c.logger.Warn("dedup unavailable", "event_id", event.EventID, "error", seenErr)
		case seen:
			c.logger.Info("skipping duplicate event", "event_id", event.EventID, "order_ref", event.OrderRef)
			return nil
		}
	}

	res, err := c.handler.Handle(ctx, cmd)
	if err != nil {
		if isRejected(err) {
			c.logger.Warn("order rejected", "order_ref", event.OrderRef, "error", err)
			return nil
		}
		return err
	}

	if c.dedup != nil {
		if markErr := c.dedup.MarkProcessed(ctx, key); markErr != nil {
			c.logger.Warn("marking event processed", "event_id", event.EventID, "error", markErr)
		}
	}

	if res.Created {
		c.logger.Info("order ingested", "order_id", res.OrderID.String(), "order_ref", event.OrderRef, "units", cmd.UnitCount())
	} else {
		c.logger.Info("order already ingested", "order_id", res.OrderID.String(), "order_ref", event.OrderRef)
	}
	return nil
}

// isRejected reports errors that a redelivery of the same event cannot fix.
func isRejected(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrConflict)
}
