// Package upsellrepo stores up-sell decision records for reporting.
package upsellrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/upsell"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MetricDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderRef        string          `gorm:"type:varchar(128);not null"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	OperatorID      string          `gorm:"type:varchar(128);not null"`
	FromProductID   string          `gorm:"type:varchar(128);not null"`
	FromProductName string          `gorm:"type:varchar(255);not null"`
	FromVariantID   string          `gorm:"type:varchar(128);not null;default:''"`
	FromVariantName string          `gorm:"type:varchar(255);not null;default:''"`
	ToProductID     string          `gorm:"type:varchar(128);not null"`
	ToProductName   string          `gorm:"type:varchar(255);not null"`
	ToVariantID     string          `gorm:"type:varchar(128);not null;default:''"`
	ToVariantName   string          `gorm:"type:varchar(255);not null;default:''"`
	Decision        int             `gorm:"type:smallint;not null;index"`
	Delta           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CapturedAt      *time.Time
	PaymentMethod   *string   `gorm:"type:varchar(64)"`
	RecordedAt      time.Time `gorm:"not null;index"`
}

func (MetricDTO) TableName() string {
	return "upsell_metrics"
}

func fromDomain(m *upsell.Metric) MetricDTO {
	var capturedAt *time.Time
	var method *string
	if p := m.Payment(); p != nil {
		capturedAt = &p.CapturedAt
		method = &p.Method
	}

	return MetricDTO{
		ID:              m.ID().Bytes(),
		OrderID:         m.OrderID().Bytes(),
		OrderRef:        m.OrderRef(),
		ItemID:          m.ItemID().Bytes(),
		OperatorID:      m.OperatorID(),
		FromProductID:   m.From().ProductID(),
		FromProductName: m.From().ProductName(),
		FromVariantID:   m.From().VariantID(),
		FromVariantName: m.From().VariantName(),
		ToProductID:     m.To().ProductID(),
		ToProductName:   m.To().ProductName(),
		ToVariantID:     m.To().VariantID(),
		ToVariantName:   m.To().VariantName(),
		Decision:        int(m.Decision()),
		Delta:           m.Delta(),
		CapturedAt:      capturedAt,
		PaymentMethod:   method,
		RecordedAt:      m.RecordedAt(),
	}
}

func toDomain(dto MetricDTO) (*upsell.Metric, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}
	from, err := kernel.NewProductRef(dto.FromProductID, dto.FromProductName, dto.FromVariantID, dto.FromVariantName)
	if err != nil {
		return nil, err
	}
	to, err := kernel.NewProductRef(dto.ToProductID, dto.ToProductName, dto.ToVariantID, dto.ToVariantName)
	if err != nil {
		return nil, err
	}

	var payment *upsell.Payment
	if dto.CapturedAt != nil && dto.PaymentMethod != nil {
		payment = &upsell.Payment{CapturedAt: *dto.CapturedAt, Method: *dto.PaymentMethod}
	}

	return upsell.NewMetric(
		id, orderID, dto.OrderRef, itemID, dto.OperatorID,
		from, to, upsell.Decision(dto.Decision), dto.Delta, payment, dto.RecordedAt,
	)
}
