package ports

import (
	"context"
)

// UnitOfWorkFactory creates a new UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained from
// it after Begin run inside the transaction. Commit also stores the domain
// events of every aggregate written through its repositories.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	ScanLedgerRepository() ScanLedgerRepository
	UpsellMetricRepository() UpsellMetricRepository
	OutboxRepository() OutboxRepository
}
