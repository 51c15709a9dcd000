// Package postgres provides the GORM based unit of work used by every
// command handler.
//
// A unit of work hands out repositories bound to its transaction once Begin
// has been called, or to the plain connection otherwise. Aggregates written
// through its repositories are tracked; Commit stores their pending domain
// events in the outbox inside the same transaction, then commits.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	// ... change o
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance belongs to one goroutine and one business
// operation; create a new one per command.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/scanrepo"
	"fulfillment/internal/adapters/out/postgres/upsellrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that raise domain events.
type eventSource interface {
	DomainEvents() []order.Event
	ClearDomainEvents()
}

type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work with its own transaction state and
// tracked aggregates.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates
// written inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is open
// is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes the pending domain events of every tracked aggregate to the
// outbox and commits. If storing the events fails the transaction is rolled
// back and nothing is persisted.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.flushEvents(ctx); err != nil {
		_ = uow.tx.Rollback().Error
		uow.tx = nil
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// when nothing is open, which is the normal case for the deferred rollback
// after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) flushEvents(ctx context.Context) error {
	outbox := outboxrepo.NewGormOutboxRepository(uow.tx)
	seen := make(map[eventSource]struct{}, len(uow.trackedAggregates))

	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}

		if err := outbox.Append(ctx, source.DomainEvents()); err != nil {
			return err
		}
	}

	for source := range seen {
		source.ClearDomainEvents()
	}

	return nil
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ScanLedgerRepository() ports.ScanLedgerRepository {
	return scanrepo.NewGormScanLedgerRepository(uow.conn())
}

func (uow *GormUnitOfWork) UpsellMetricRepository() ports.UpsellMetricRepository {
	return upsellrepo.NewGormUpsellMetricRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate written through one of the
// repositories. Outside a transaction there is no commit to attach events
// to, so nothing is tracked.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	if uow.tx == nil {
		return
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
