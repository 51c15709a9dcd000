package services

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Readiness summarizes how far an order is from shipping.
type Readiness struct {
	OrderID        kernel.UUID
	Status         order.Status
	Mode           order.ShippingMode
	Released       bool
	Ready          bool
	ItemCount      int
	Unscanned      int
	UploadedLabels int
	UnviewedLabels []kernel.UUID
	CanIssueLabel  bool
	CanMarkShipped bool
	// Blocker explains why the next shipping step is not available yet.
	Blocker string
}

// ShipmentFinalizer detects when every unit of an order is scanned and runs
// the two shipping paths:
//   - carrier integrated orders request a label from the carrier and ship on success
//   - manually labeled orders ship once every uploaded label has been viewed
//
// A path that is not fully satisfied leaves the order InLogistics.
type ShipmentFinalizer struct{}

func NewShipmentFinalizer() ShipmentFinalizer {
	return ShipmentFinalizer{}
}

// TryFinalize reports readiness without changing the order.
func (f ShipmentFinalizer) TryFinalize(o *order.Order) (Readiness, error) {
	if err := o.Validate(); err != nil {
		return Readiness{}, err
	}

	r := Readiness{
		OrderID:   o.ID(),
		Status:    o.Status(),
		Mode:      o.ShippingMode(),
		Released:  o.Released(),
		Ready:     o.IsFullyScanned(),
		ItemCount: len(o.Items()),
		Unscanned: o.UnscannedCount(),
	}
	for _, l := range o.Labels() {
		if l.Source() == order.UploadedLabel {
			r.UploadedLabels++
		}
	}
	for _, l := range o.UnviewedLabels() {
		r.UnviewedLabels = append(r.UnviewedLabels, l.ID())
	}

	var blocker error
	switch o.ShippingMode() {
	case order.CarrierIntegrated:
		blocker = o.CanShipWithCarrierLabel()
		r.CanIssueLabel = blocker == nil
	case order.ManualLabel:
		blocker = o.CanShipManually()
		r.CanMarkShipped = blocker == nil
	}
	if blocker != nil {
		r.Blocker = blocker.Error()
	}
	return r, nil
}

// CheckCarrierLabel verifies that a label may be requested from the carrier.
// Run it before calling the provider so no label is bought for an order that
// cannot ship.
func (f ShipmentFinalizer) CheckCarrierLabel(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.CanShipWithCarrierLabel()
}

// ShipWithCarrierLabel records the issued label and ships the order.
func (f ShipmentFinalizer) ShipWithCarrierLabel(o *order.Order, labelID kernel.UUID, reference string, at time.Time) (*order.Label, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o.ShipWithCarrierLabel(labelID, reference, at)
}

// ShipManually ships a manually labeled order.
func (f ShipmentFinalizer) ShipManually(o *order.Order, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.ShipManually(at)
}
