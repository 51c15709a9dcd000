package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetLogisticsQueueQueryHandler struct {
	db *gorm.DB
}

func NewGetLogisticsQueueQueryHandler(db *gorm.DB) GetLogisticsQueueQueryHandler {
	return GetLogisticsQueueQueryHandler{db: db}
}

func (h GetLogisticsQueueQueryHandler) Handle(
	ctx context.Context,
	query GetLogisticsQueueQuery,
) ([]GetLogisticsQueueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	queue := make([]GetLogisticsQueueQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.external_ref,
			o.urgent,
			o.released,
			o.shipping_mode,
			o.created_at,
			count(i.id) AS item_count,
			count(i.id) FILTER (WHERE i.scanned_at IS NULL) AS unscanned
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.status = ?
		GROUP BY o.id
		ORDER BY o.urgent DESC, o.created_at, o.id
		LIMIT ?
	`, int(order.InLogistics), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetLogisticsQueueQueryResponse
		var id uuid.UUID
		var mode int
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&entry.ExternalRef,
			&entry.Urgent,
			&entry.Released,
			&mode,
			&createdAt,
			&entry.ItemCount,
			&entry.Unscanned,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.OrderID = orderID
		entry.ShippingMode = order.ShippingMode(mode).String()
		entry.CreatedAt = createdAt.UTC()
		queue = append(queue, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return queue, nil
}
