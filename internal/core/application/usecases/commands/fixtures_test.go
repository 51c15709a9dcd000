package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/upsell"

	"github.com/stretchr/testify/require"
)

func testItem(t *testing.T, productID, price, code string, eligible bool) *order.Item {
	t.Helper()
	ref, err := kernel.NewProductRef(productID, productID, "", "")
	require.NoError(t, err)
	money, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	bc, err := kernel.NewBarcode(code)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), ref, money, bc, eligible)
	require.NoError(t, err)
	return item
}

func testOrder(t *testing.T, mode order.ShippingMode, urgent bool, createdAt time.Time, items ...*order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "SHOP-"+kernel.NewUUID().String()[:8], urgent, mode, createdAt, items)
	require.NoError(t, err)
	return o
}

func toLogistics(t *testing.T, o *order.Order) {
	t.Helper()
	now := time.Now()
	require.NoError(t, o.StartProduction(now))
	require.NoError(t, o.MarkReadyForLogistics(now))
	require.NoError(t, o.StartLogistics(now))
}

func resolveKeep(t *testing.T, o *order.Order, item *order.Item) {
	t.Helper()
	_, err := o.ResolveUpsell(item.ID(), upsell.NewKeepResolution(), time.Now())
	require.NoError(t, err)
}
