// Package commands contains the operations that change fulfillment state.
// Every command is a validated value built by its constructor; every handler
// runs it inside one unit of work so a failure leaves nothing behind.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of work views used by the handlers. Each handler depends on the
// narrowest view it needs; the postgres unit of work satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ScanLedgerRepoFactory interface {
		ScanLedgerRepository() ports.ScanLedgerRepository
	}

	UpsellMetricRepoFactory interface {
		UpsellMetricRepository() ports.UpsellMetricRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW is used by commands that only touch the order aggregate.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UpsellUoW also appends up-sell metric records.
	UpsellUoW interface {
		TxManager
		OrderRepoFactory
		UpsellMetricRepoFactory
	}

	UpsellUoWFactory interface {
		Create() UpsellUoW
	}

	// ScanUoW locks scan candidates and appends to the scan ledger.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   candidates, err := uow.ScanLedgerRepository().LockCandidates(ctx, code)
	//   // ... pick a winner, mark it, append the ledger entry
	//
	//   err = uow.Commit(ctx)
	ScanUoW interface {
		TxManager
		OrderRepoFactory
		ScanLedgerRepoFactory
	}

	ScanUoWFactory interface {
		Create() ScanUoW
	}

	// OutboxUoW is used by the outbox relay.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
