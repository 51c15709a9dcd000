package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// MaxOutboxBatchSize bounds a single relay run.
const MaxOutboxBatchSize = 1000

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand publishes up to BatchSize stored domain events.
type RelayOutboxCommand struct {
	batchSize int
	guard     guard.ConstructorGuard
}

func NewRelayOutboxCommand(batchSize int) (RelayOutboxCommand, error) {
	if batchSize < 1 || batchSize > MaxOutboxBatchSize {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, MaxOutboxBatchSize)
	}
	return RelayOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int { return c.batchSize }

// RelayOutboxCommandHandler fans stored events out to realtime subscribers.
// Messages are published oldest first; the first failed publish stops the
// run and the remaining messages are retried on the next run. Only messages
// that were published are marked. It never touches orders or items.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewRelayOutboxCommandHandler(uowFactory OutboxUoWFactory, publisher ports.EventPublisher, logger *slog.Logger) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{uowFactory: uowFactory, publisher: publisher, logger: logger}
}

// Handle returns the number of published messages.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outboxRepo := uow.OutboxRepository()

	messages, err := outboxRepo.FetchUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	published := make([]kernel.UUID, 0, len(messages))
	var publishErr error
	for _, msg := range messages {
		if publishErr = h.publisher.Publish(ctx, msg); publishErr != nil {
			h.logger.Warn("outbox publish failed",
				"message_id", msg.ID.String(),
				"event_type", msg.EventType,
				"error", publishErr)
			break
		}
		published = append(published, msg.ID)
	}

	if len(published) > 0 {
		if err = outboxRepo.MarkPublished(ctx, published, time.Now()); err != nil {
			return 0, err
		}
		if err = uow.Commit(ctx); err != nil {
			return 0, err
		}
	}

	return len(published), publishErr
}
