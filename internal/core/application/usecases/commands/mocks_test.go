package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/scan"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateItem(ctx context.Context, o *order.Order, itemID kernel.UUID) error {
	args := m.Called(ctx, o, itemID)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByExternalRef(ctx context.Context, ref string) (*order.Order, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrderIDByItem(ctx context.Context, itemID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockScanLedgerRepository struct{ mock.Mock }

func (m *MockScanLedgerRepository) LockCandidates(ctx context.Context, code kernel.Barcode) ([]scan.Candidate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scan.Candidate), args.Error(1)
}

func (m *MockScanLedgerRepository) Append(ctx context.Context, entry *scan.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockScanLedgerRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*scan.LedgerEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*scan.LedgerEntry), args.Error(1)
}

type MockUpsellMetricRepository struct{ mock.Mock }

func (m *MockUpsellMetricRepository) Append(ctx context.Context, metric *upsell.Metric) error {
	args := m.Called(ctx, metric)
	return args.Error(0)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Append(ctx context.Context, events []order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

// MockUoW satisfies every unit of work view used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ScanLedgerRepository() ports.ScanLedgerRepository {
	args := m.Called()
	return args.Get(0).(ports.ScanLedgerRepository)
}

func (m *MockUoW) UpsellMetricRepository() ports.UpsellMetricRepository {
	args := m.Called()
	return args.Get(0).(ports.UpsellMetricRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUpsellUoWFactory struct{ mock.Mock }

func (m *MockUpsellUoWFactory) Create() commands.UpsellUoW {
	args := m.Called()
	return args.Get(0).(commands.UpsellUoW)
}

type MockScanUoWFactory struct{ mock.Mock }

func (m *MockScanUoWFactory) Create() commands.ScanUoW {
	args := m.Called()
	return args.Get(0).(commands.ScanUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockLabelProvider struct{ mock.Mock }

func (m *MockLabelProvider) IssueLabel(ctx context.Context, req ports.LabelRequest) (ports.IssuedLabel, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.IssuedLabel), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
