// Package ports defines the contracts between the fulfillment core and its
// adapters: repositories, the unit of work, and outbound integrations.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates with their items and labels.
type OrderRepository interface {
	// Add persists a new order with all of its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order row, its items and labels. Items no longer
	// present in the aggregate are deleted.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateItem writes a single item row of the aggregate. The order row is
	// not touched, so concurrent scans of different orders never wait on each
	// other's order locks.
	UpdateItem(ctx context.Context, aggregate *order.Order, itemID kernel.UUID) error

	// Get loads an order with its items and labels.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and locks its row until the transaction ends.
	// Concurrent writers of the same order are serialized on this lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByExternalRef finds the order created for a commerce reference.
	GetByExternalRef(ctx context.Context, externalRef string) (*order.Order, error)

	// FindOrderIDByItem resolves the owning order of an item.
	FindOrderIDByItem(ctx context.Context, itemID kernel.UUID) (kernel.UUID, error)
}
