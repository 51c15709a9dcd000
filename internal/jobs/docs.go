// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds precision). They
// only move infrastructure data; no job changes an order or an item.
//
// # Available Jobs
//
// 1. OutboxRelayJob - publishes unpublished outbox messages to the realtime
// channel and marks them published
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, "*/2 * * * * *", 100, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Messages are marked
// published only after a successful publish.
package jobs
