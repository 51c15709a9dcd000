// Package queries contains the read side: each query is a validated value
// built by its constructor and answered by a handler that never writes.
package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderReader loads an order aggregate for read-only use.
// ports.OrderRepository satisfies it.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
