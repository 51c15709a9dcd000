package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/upsell"
)

// UpsellMetricRepository appends up-sell decision records. Records are never
// updated or deleted.
type UpsellMetricRepository interface {
	Append(ctx context.Context, metric *upsell.Metric) error
}
