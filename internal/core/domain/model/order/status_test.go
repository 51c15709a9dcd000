package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Registry(t *testing.T) {
	t.Run("stored values are stable", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.Created))
		assert.Equal(t, 2, int(order.InProduction))
		assert.Equal(t, 3, int(order.ReadyForLogistics))
		assert.Equal(t, 4, int(order.InLogistics))
		assert.Equal(t, 5, int(order.Shipped))
		assert.Equal(t, 6, int(order.Cancelled))
		assert.Equal(t, 7, int(order.Returned))
	})

	t.Run("names round trip", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			parsed, err := order.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("parse is case insensitive", func(t *testing.T) {
		s, err := order.ParseStatus("inlogistics")
		require.NoError(t, err)
		assert.Equal(t, order.InLogistics, s)
	})

	t.Run("unknown names and values are invalid", func(t *testing.T) {
		_, err := order.ParseStatus("Delivered")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
		require.ErrorIs(t, order.Status(42).Validate(), errs.ErrValueIsInvalid)
		assert.Equal(t, "Unknown", order.Status(42).String())
	})
}

func TestStatus_AutomaticFlow(t *testing.T) {
	tests := []struct {
		name string
		from order.Status
		step func(order.Status) (order.Status, error)
		to   order.Status
	}{
		{"start production", order.Created, order.Status.StartProduction, order.InProduction},
		{"ready for logistics", order.InProduction, order.Status.MarkReadyForLogistics, order.ReadyForLogistics},
		{"start logistics", order.ReadyForLogistics, order.Status.StartLogistics, order.InLogistics},
		{"ship", order.InLogistics, order.Status.Ship, order.Shipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.step(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.to, next)

			for _, other := range order.AllStatuses() {
				if other == tt.from {
					continue
				}
				_, err = tt.step(other)
				require.ErrorIs(t, err, errs.ErrConflict, "from %s", other)
			}
		})
	}
}

func TestStatus_SideStates(t *testing.T) {
	t.Run("cancel from non-terminal only", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			next, err := s.Cancel()
			if s.IsTerminal() {
				require.ErrorIs(t, err, errs.ErrConflict, s.String())
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, order.Cancelled, next)
		}
	})

	t.Run("return from non-terminal and shipped", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			next, err := s.Return()
			if s == order.Cancelled || s == order.Returned {
				require.ErrorIs(t, err, errs.ErrConflict, s.String())
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, order.Returned, next)
		}
	})

	t.Run("override accepts any other valid status", func(t *testing.T) {
		next, err := order.Cancelled.Override(order.InLogistics)
		require.NoError(t, err)
		assert.Equal(t, order.InLogistics, next)

		_, err = order.Created.Override(order.Created)
		require.ErrorIs(t, err, errs.ErrConflict)

		_, err = order.Created.Override(order.Unknown)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUpsellStatus(t *testing.T) {
	assert.True(t, order.UpsellUnresolved.IsPending())
	assert.True(t, order.UpsellAwaiting.IsPending())
	for _, s := range []order.UpsellStatus{order.UpsellKept, order.UpsellUpgraded, order.UpsellFreeUpgrade} {
		assert.True(t, s.IsTerminal(), s.String())
		assert.False(t, s.IsPending(), s.String())
	}
	require.Error(t, order.UpsellStatus(9).Validate())
}

func TestParseShippingMode(t *testing.T) {
	m, err := order.ParseShippingMode("carrier")
	require.NoError(t, err)
	assert.Equal(t, order.CarrierIntegrated, m)

	m, err = order.ParseShippingMode("ManualLabel")
	require.NoError(t, err)
	assert.Equal(t, order.ManualLabel, m)

	_, err = order.ParseShippingMode("pigeon")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
