package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultOutboxRelaySchedule runs the relay every second.
const DefaultOutboxRelaySchedule = "* * * * * *"

type RelayOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob periodically publishes stored domain events to realtime
// subscribers. A run that is still busy when the next tick fires makes that
// tick a no-op.
type OutboxRelayJob struct {
	handler   RelayOutboxHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(handler RelayOutboxHandler, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "outbox_relay_job"),
	}
}

// Start validates the batch size and schedules the relay.
func (j *OutboxRelayJob) Start() error {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background(), cmd)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Outbox relay job started", "schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// RunOnce relays one batch.
func (j *OutboxRelayJob) RunOnce(ctx context.Context, cmd commands.RelayOutboxCommand) {
	published, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay failed", "published", published, "error", err)
		return
	}
	if published > 0 {
		j.logger.DebugContext(ctx, "Outbox relayed", "published", published)
	}
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Outbox relay job stopped")
}
