package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type upsellFixture struct {
	orderRepo  *MockOrderRepository
	metricRepo *MockUpsellMetricRepository
	uow        *MockUoW
	factory    *MockUpsellUoWFactory
}

func newUpsellFixture() upsellFixture {
	f := upsellFixture{
		orderRepo:  new(MockOrderRepository),
		metricRepo: new(MockUpsellMetricRepository),
		uow:        new(MockUoW),
		factory:    new(MockUpsellUoWFactory),
	}
	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("OrderRepository").Return(f.orderRepo)
	f.uow.On("UpsellMetricRepository").Return(f.metricRepo)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	return f
}

// expectResolution stores o for both the locked and the fresh read, which is
// what the database returns inside one transaction.
func (f upsellFixture) expectResolution(o *order.Order, item *order.Item, updates int) {
	f.orderRepo.On("FindOrderIDByItem", mock.Anything, item.ID()).Return(o.ID(), nil).Once()
	f.orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", mock.Anything, o).Return(nil).Times(updates)
	f.metricRepo.On("Append", mock.Anything, mock.AnythingOfType("*upsell.Metric")).Return(nil).Once()
	f.orderRepo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()
}

func TestResolveUpsellCommandHandler_AutoReleasesOnLastDecision(t *testing.T) {
	ctx := t.Context()
	first := testItem(t, "desk", "100.00", "1", true)
	second := testItem(t, "chair", "50.00", "2", true)
	o := testOrder(t, order.CarrierIntegrated, false, time.Now(), first, second)
	f := newUpsellFixture()
	handler := commands.NewResolveUpsellCommandHandler(f.factory)

	f.expectResolution(o, first, 1)
	keep, err := commands.NewResolveUpsellCommand(first.ID(), "op-1", upsell.NewKeepResolution())
	require.NoError(t, err)

	res, err := handler.Handle(ctx, keep)

	require.NoError(t, err)
	assert.False(t, res.Released)
	assert.False(t, res.AutoReleased)
	assert.Equal(t, order.UpsellKept, res.Item.UpsellStatus())

	f.expectResolution(o, second, 2)
	target, err := kernel.NewProductRef("chair-pro", "Chair Pro", "", "")
	require.NoError(t, err)
	resolution, err := upsell.NewUpgradeResolution(target, decimal.RequireFromString("15.00"), time.Now(), "card")
	require.NoError(t, err)
	upgrade, err := commands.NewResolveUpsellCommand(second.ID(), "op-1", resolution)
	require.NoError(t, err)

	res, err = handler.Handle(ctx, upgrade)

	require.NoError(t, err)
	assert.True(t, res.Released)
	assert.True(t, res.AutoReleased)
	assert.Equal(t, "165.00", res.TotalValue.String())
	assert.True(t, o.Released())
	f.orderRepo.AssertExpectations(t)
	f.metricRepo.AssertExpectations(t)
}

func TestResolveUpsellCommandHandler_RecordsMetric(t *testing.T) {
	ctx := t.Context()
	item := testItem(t, "desk", "100.00", "1", true)
	o := testOrder(t, order.CarrierIntegrated, false, time.Now(), item, testItem(t, "lamp", "5", "2", false))
	f := newUpsellFixture()
	f.expectResolution(o, item, 1)

	target, err := kernel.NewProductRef("desk-pro", "Desk Pro", "", "")
	require.NoError(t, err)
	resolution, err := upsell.NewFreeUpgradeResolution(target)
	require.NoError(t, err)
	cmd, err := commands.NewResolveUpsellCommand(item.ID(), "op-9", resolution)
	require.NoError(t, err)

	_, err = commands.NewResolveUpsellCommandHandler(f.factory).Handle(ctx, cmd)
	require.NoError(t, err)

	metric := f.metricRepo.Calls[0].Arguments.Get(1).(*upsell.Metric)
	assert.Equal(t, "op-9", metric.OperatorID())
	assert.Equal(t, o.ExternalRef(), metric.OrderRef())
	assert.Equal(t, "desk", metric.From().ProductID())
	assert.Equal(t, "desk-pro", metric.To().ProductID())
	assert.Equal(t, upsell.FreeUpgrade, metric.Decision())
	assert.Nil(t, metric.Payment())
	assert.False(t, o.Released(), "a non-eligible item keeps the order unreleased")
}

func TestResolveUpsellCommandHandler_RecordsUpgradePayment(t *testing.T) {
	ctx := t.Context()
	item := testItem(t, "desk", "100.00", "1", true)
	o := testOrder(t, order.CarrierIntegrated, false, time.Now(), item, testItem(t, "lamp", "5", "2", false))
	f := newUpsellFixture()
	f.expectResolution(o, item, 1)

	captured := time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)
	target, err := kernel.NewProductRef("desk-pro", "Desk Pro", "", "")
	require.NoError(t, err)
	resolution, err := upsell.NewUpgradeResolution(target, decimal.RequireFromString("12.50"), captured, "pix")
	require.NoError(t, err)
	cmd, err := commands.NewResolveUpsellCommand(item.ID(), "op-3", resolution)
	require.NoError(t, err)

	_, err = commands.NewResolveUpsellCommandHandler(f.factory).Handle(ctx, cmd)
	require.NoError(t, err)

	metric := f.metricRepo.Calls[0].Arguments.Get(1).(*upsell.Metric)
	assert.Equal(t, upsell.Upgrade, metric.Decision())
	assert.Equal(t, "12.50", metric.Delta().StringFixed(2))
	require.NotNil(t, metric.Payment())
	assert.True(t, captured.Equal(metric.Payment().CapturedAt))
	assert.Equal(t, "pix", metric.Payment().Method)
}

func TestResolveUpsellCommandHandler_AlreadyResolvedRollsBack(t *testing.T) {
	ctx := t.Context()
	item := testItem(t, "desk", "100.00", "1", true)
	o := testOrder(t, order.CarrierIntegrated, false, time.Now(), item)
	_, err := o.ResolveUpsell(item.ID(), upsell.NewKeepResolution(), time.Now())
	require.NoError(t, err)

	f := newUpsellFixture()
	f.orderRepo.On("FindOrderIDByItem", mock.Anything, item.ID()).Return(o.ID(), nil).Once()
	f.orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()

	cmd, err := commands.NewResolveUpsellCommand(item.ID(), "op-1", upsell.NewKeepResolution())
	require.NoError(t, err)

	_, err = commands.NewResolveUpsellCommandHandler(f.factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	f.orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.metricRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.uow.AssertCalled(t, "Rollback", mock.Anything)
}

func TestResolveUpsellCommandHandler_MetricFailureAbortsResolution(t *testing.T) {
	ctx := t.Context()
	item := testItem(t, "desk", "100.00", "1", true)
	o := testOrder(t, order.CarrierIntegrated, false, time.Now(), item)

	f := newUpsellFixture()
	f.orderRepo.On("FindOrderIDByItem", mock.Anything, item.ID()).Return(o.ID(), nil).Once()
	f.orderRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
	f.orderRepo.On("Update", mock.Anything, o).Return(nil).Once()
	f.metricRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	cmd, err := commands.NewResolveUpsellCommand(item.ID(), "op-1", upsell.NewKeepResolution())
	require.NoError(t, err)

	_, err = commands.NewResolveUpsellCommandHandler(f.factory).Handle(ctx, cmd)

	require.EqualError(t, err, "insert failed")
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewResolveUpsellCommand_RequiresDecisionAndOperator(t *testing.T) {
	_, err := commands.NewResolveUpsellCommand(kernel.NewUUID(), "", upsell.Resolution{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "decision")
	assert.Contains(t, err.Error(), "operatorId")
}
