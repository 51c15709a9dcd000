package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func item(t *testing.T, productID, variant, price, code string, eligible bool) *order.Item {
	t.Helper()
	variantID := ""
	if variant != "" {
		variantID = productID + "-" + variant
	}
	ref, err := kernel.NewProductRef(productID, productID, variantID, variant)
	require.NoError(t, err)
	money, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	bc, err := kernel.NewBarcode(code)
	require.NoError(t, err)
	i, err := order.NewItem(kernel.NewUUID(), ref, money, bc, eligible)
	require.NoError(t, err)
	return i
}

func newOrder(t *testing.T, mode order.ShippingMode, items ...*order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "SHOP-1001", true, mode, time.Now(), items)
	require.NoError(t, err)
	return o
}

func TestGetOrderQueryHandler_MergesNonEligibleLines(t *testing.T) {
	deskA := item(t, "desk", "", "100.00", "1", true)
	deskB := item(t, "desk", "", "100.00", "1", true)
	mug1 := item(t, "mug", "Blue", "9.00", "2", false)
	mug2 := item(t, "mug", "Blue", "9.00", "2", false)
	mugRed := item(t, "mug", "Red", "9.00", "3", false)
	mugDiscount := item(t, "mug", "Blue", "7.50", "2", false)
	o := newOrder(t, order.ManualLabel, deskA, mug1, deskB, mug2, mugRed, mugDiscount)
	_, err := o.ResolveUpsell(deskA.ID(), upsell.NewKeepResolution(), time.Now())
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	query, err := queries.NewGetOrderQuery(o.ID())
	require.NoError(t, err)

	resp, err := queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	assert.Equal(t, "SHOP-1001", resp.ExternalRef)
	assert.Equal(t, "234.50", resp.TotalValue)
	require.Len(t, resp.Lines, 5)

	assert.Equal(t, []kernel.UUID{deskA.ID()}, resp.Lines[0].ItemIDs)
	assert.Equal(t, order.UpsellKept.String(), resp.Lines[0].UpsellStatus)

	assert.Equal(t, "Blue", resp.Lines[1].VariantName)
	assert.Equal(t, 2, resp.Lines[1].Quantity)
	assert.Equal(t, []kernel.UUID{mug1.ID(), mug2.ID()}, resp.Lines[1].ItemIDs)

	assert.Equal(t, []kernel.UUID{deskB.ID()}, resp.Lines[2].ItemIDs)
	assert.Equal(t, 1, resp.Lines[2].Quantity)
	assert.Equal(t, "Red", resp.Lines[3].VariantName)
	assert.Equal(t, "7.50", resp.Lines[4].UnitPrice)

	assert.Equal(t, []kernel.UUID{deskB.ID()}, resp.PendingUpsell)
}

func TestGetOrderQueryHandler_NotFound(t *testing.T) {
	id := kernel.NewUUID()
	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()
	query, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)

	_, err = queries.NewGetOrderQueryHandler(reader).Handle(t.Context(), query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderQueryHandler_RejectsZeroQuery(t *testing.T) {
	_, err := queries.NewGetOrderQueryHandler(new(MockOrderReader)).Handle(t.Context(), queries.GetOrderQuery{})

	require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestTryFinalizeQueryHandler(t *testing.T) {
	now := time.Now()
	mug := item(t, "mug", "", "9.00", "2", false)
	cup := item(t, "cup", "", "4.00", "3", false)
	o := newOrder(t, order.ManualLabel, mug, cup)
	require.NoError(t, o.ManualRelease(now))
	require.NoError(t, o.StartProduction(now))
	require.NoError(t, o.MarkReadyForLogistics(now))
	require.NoError(t, o.StartLogistics(now))
	require.NoError(t, o.MarkItemScanned(mug.ID(), "2", now))

	reader := new(MockOrderReader)
	reader.On("Get", mock.Anything, o.ID()).Return(o, nil)
	handler := queries.NewTryFinalizeQueryHandler(reader)
	query, err := queries.NewTryFinalizeQuery(o.ID())
	require.NoError(t, err)

	readiness, err := handler.Handle(t.Context(), query)
	require.NoError(t, err)
	assert.False(t, readiness.Ready)
	assert.Equal(t, 1, readiness.Unscanned)
	assert.False(t, readiness.CanMarkShipped)
	assert.NotEmpty(t, readiness.Blocker)

	require.NoError(t, o.MarkItemScanned(cup.ID(), "3", now))
	label, err := o.AttachUploadedLabel(kernel.NewUUID(), "label-1.pdf", now)
	require.NoError(t, err)

	readiness, err = handler.Handle(t.Context(), query)
	require.NoError(t, err)
	assert.True(t, readiness.Ready)
	assert.Equal(t, []kernel.UUID{label.ID()}, readiness.UnviewedLabels)
	assert.False(t, readiness.CanMarkShipped)

	require.NoError(t, o.MarkLabelViewed(label.ID(), now))

	readiness, err = handler.Handle(t.Context(), query)
	require.NoError(t, err)
	assert.True(t, readiness.CanMarkShipped)
	assert.Empty(t, readiness.Blocker)
	assert.Equal(t, order.InLogistics, o.Status(), "readiness never ships the order")
}
