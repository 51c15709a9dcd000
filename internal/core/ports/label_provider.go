package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// LabelRequest describes the shipment a carrier label is requested for.
type LabelRequest struct {
	OrderID     kernel.UUID
	ExternalRef string
	ItemCount   int
	TotalValue  string
}

// IssuedLabel is the carrier's answer: a reference to the label artifact.
type IssuedLabel struct {
	Reference      string
	TrackingNumber string
}

// LabelProvider issues shipping labels at an external carrier. Failures are
// returned as errs.ExternalServiceError and are never retried by the caller.
type LabelProvider interface {
	IssueLabel(ctx context.Context, req LabelRequest) (IssuedLabel, error)
}
