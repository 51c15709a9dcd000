package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item is one physical unit of an order. Quantities are expanded into one
// Item per unit so that every unit has its own up-sell state and its own scan.
type Item struct {
	id              kernel.UUID
	orderID         kernel.UUID
	product         kernel.ProductRef
	unitPrice       kernel.Money
	expectedBarcode kernel.Barcode
	upsellEligible  bool
	upsellStatus    UpsellStatus
	scanned         bool
	scannedAt       *time.Time
	isConstructed   bool
}

// NewItem builds an unscanned unit. Eligible units start Awaiting a decision.
// The owning order is set when the item is passed to NewOrder.
func NewItem(
	id kernel.UUID,
	product kernel.ProductRef,
	unitPrice kernel.Money,
	expectedBarcode kernel.Barcode,
	upsellEligible bool,
) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		product.Validate(),
		unitPrice.Validate(),
		expectedBarcode.Validate(),
	); err != nil {
		return nil, err
	}

	status := UpsellUnresolved
	if upsellEligible {
		status = UpsellAwaiting
	}

	return &Item{
		id:              id,
		product:         product,
		unitPrice:       unitPrice,
		expectedBarcode: expectedBarcode,
		upsellEligible:  upsellEligible,
		upsellStatus:    status,
		isConstructed:   true,
	}, nil
}

// RestoreItem rebuilds an item loaded from storage.
func RestoreItem(
	id, orderID kernel.UUID,
	product kernel.ProductRef,
	unitPrice kernel.Money,
	expectedBarcode kernel.Barcode,
	upsellEligible bool,
	upsellStatus UpsellStatus,
	scannedAt *time.Time,
) (*Item, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		product.Validate(),
		unitPrice.Validate(),
		expectedBarcode.Validate(),
		upsellStatus.Validate(),
	); err != nil {
		return nil, err
	}
	if !upsellEligible && upsellStatus != UpsellUnresolved {
		return nil, errs.NewValueIsInvalidErrorWithCause("upsellStatus",
			fmt.Errorf("item %s is not eligible but has status %s", id, upsellStatus))
	}

	return &Item{
		id:              id,
		orderID:         orderID,
		product:         product,
		unitPrice:       unitPrice,
		expectedBarcode: expectedBarcode,
		upsellEligible:  upsellEligible,
		upsellStatus:    upsellStatus,
		scanned:         scannedAt != nil,
		scannedAt:       scannedAt,
		isConstructed:   true,
	}, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID                 { return i.id }
func (i *Item) OrderID() kernel.UUID            { return i.orderID }
func (i *Item) Product() kernel.ProductRef      { return i.product }
func (i *Item) UnitPrice() kernel.Money         { return i.unitPrice }
func (i *Item) ExpectedBarcode() kernel.Barcode { return i.expectedBarcode }
func (i *Item) UpsellEligible() bool            { return i.upsellEligible }
func (i *Item) UpsellStatus() UpsellStatus      { return i.upsellStatus }
func (i *Item) Scanned() bool                   { return i.scanned }

// ScannedAt returns nil while the unit has not been matched.
func (i *Item) ScannedAt() *time.Time {
	if i.scannedAt == nil {
		return nil
	}
	at := *i.scannedAt
	return &at
}

// IsAwaitingUpsell reports whether the item blocks release.
func (i *Item) IsAwaitingUpsell() bool {
	return i.upsellEligible && i.upsellStatus.IsPending()
}

func (i *Item) markScanned(at time.Time) {
	at = at.UTC()
	i.scanned = true
	i.scannedAt = &at
}
