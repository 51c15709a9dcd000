package upsellrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/upsell"

	"gorm.io/gorm"
)

type GormUpsellMetricRepository struct {
	db *gorm.DB
}

func NewGormUpsellMetricRepository(db *gorm.DB) *GormUpsellMetricRepository {
	return &GormUpsellMetricRepository{db: db}
}

func (r *GormUpsellMetricRepository) Append(ctx context.Context, metric *upsell.Metric) error {
	if err := metric.Validate(); err != nil {
		return err
	}

	dto := fromDomain(metric)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the decisions recorded for an order in recording order.
func (r *GormUpsellMetricRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*upsell.Metric, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []MetricDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("recorded_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	metrics := make([]*upsell.Metric, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}

	return metrics, nil
}
