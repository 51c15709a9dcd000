package jobs

import (
	"fmt"
	"log/slog"
)

type scheduledJob interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  scheduledJob
}

// JobManager starts and stops the scheduled jobs of the process as a group.
type JobManager struct {
	jobs    []namedJob
	started int
	logger  *slog.Logger
}

// NewJobManager wires the outbox relay, currently the only scheduled job.
func NewJobManager(relayHandler RelayOutboxHandler, schedule string, batchSize int, logger *slog.Logger) *JobManager {
	jm := &JobManager{logger: logger.With("component", "jobs")}
	jm.add("outbox relay", NewOutboxRelayJob(relayHandler, schedule, batchSize, logger))
	return jm
}

func (jm *JobManager) add(name string, job scheduledJob) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts the jobs in registration order. If one fails, the jobs
// already started are stopped again.
func (jm *JobManager) StartAll() error {
	for _, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
		jm.started++
		jm.logger.Info("Job started", "job", nj.name)
	}
	return nil
}

// StopAll stops started jobs in reverse order and waits for running ticks.
func (jm *JobManager) StopAll() {
	for i := jm.started - 1; i >= 0; i-- {
		jm.jobs[i].job.Stop()
		jm.logger.Info("Job stopped", "job", jm.jobs[i].name)
	}
	jm.started = 0
}
