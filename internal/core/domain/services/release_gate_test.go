package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, productID, code string, eligible bool) *order.Item {
	t.Helper()
	ref, err := kernel.NewProductRef(productID, productID, "", "")
	require.NoError(t, err)
	price, err := kernel.MoneyFromString("10.00")
	require.NoError(t, err)
	bc, err := kernel.NewBarcode(code)
	require.NoError(t, err)
	i, err := order.NewItem(kernel.NewUUID(), ref, price, bc, eligible)
	require.NoError(t, err)
	return i
}

func TestReleaseGate_Evaluate(t *testing.T) {
	gate := services.NewReleaseGate()
	at := time.Now()

	eligible := item(t, "desk", "1", true)
	o, err := order.NewOrder(kernel.NewUUID(), "R-1", false, order.CarrierIntegrated, at, []*order.Item{eligible})
	require.NoError(t, err)

	outcome, err := gate.Evaluate(o, at)
	require.NoError(t, err)
	assert.Equal(t, services.ReleaseOutcome{}, outcome)

	_, err = o.ResolveUpsell(eligible.ID(), upsell.NewKeepResolution(), at)
	require.NoError(t, err)

	outcome, err = gate.Evaluate(o, at)
	require.NoError(t, err)
	assert.Equal(t, services.ReleaseOutcome{Released: true, AutoReleased: true}, outcome)

	outcome, err = gate.Evaluate(o, at)
	require.NoError(t, err)
	assert.Equal(t, services.ReleaseOutcome{Released: true}, outcome)
}

func TestReleaseGate_Release(t *testing.T) {
	gate := services.NewReleaseGate()
	at := time.Now()

	o, err := order.NewOrder(kernel.NewUUID(), "R-2", false, order.CarrierIntegrated, at,
		[]*order.Item{item(t, "desk", "1", true)})
	require.NoError(t, err)

	require.ErrorIs(t, gate.Release(o, at), errs.ErrBlocked)
	require.ErrorIs(t, gate.Release(&order.Order{}, at), order.ErrOrderIsNotConstructed)
}
