package order

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/upsell"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order is the aggregate root of the fulfillment engine. It owns its items and
// shipping labels and enforces:
//   - status changes follow the Status state machine unless overridden
//   - released only becomes true through the release rules
//   - Shipped is only entered when released, and stamps shippedAt
//   - totalValue follows item removals and paid upgrades
//   - every item is scanned at most once, only while InLogistics
//
// Every state change raises a domain Event.
type Order struct {
	id           kernel.UUID
	externalRef  string
	status       Status
	released     bool
	urgent       bool
	shippingMode ShippingMode
	createdAt    time.Time
	totalValue   kernel.Money
	shippedAt    *time.Time
	items        []*Item
	labels       []*Label
	events       []Event

	isConstructed bool
}

// NewOrder creates an order in Created status from its items. totalValue is
// the sum of the item unit prices.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("120.00")
//	item, _ := order.NewItem(kernel.NewUUID(), desk, price, barcode, true)
//	o, err := order.NewOrder(kernel.NewUUID(), "SHOP-1001", false, order.CarrierIntegrated, time.Now(), []*order.Item{item})
func NewOrder(
	id kernel.UUID,
	externalRef string,
	urgent bool,
	mode ShippingMode,
	createdAt time.Time,
	items []*Item,
) (*Order, error) {
	var errRef error
	if strings.TrimSpace(externalRef) == "" {
		errRef = errs.NewValueIsRequiredError("externalRef")
	}
	var errCreated error
	if createdAt.IsZero() {
		errCreated = errs.NewValueIsRequiredError("createdAt")
	}
	if err := errors.Join(id.Validate(), mode.Validate(), errRef, errCreated); err != nil {
		return nil, err
	}

	total := kernel.ZeroMoney()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		next, err := total.Add(item.unitPrice.Decimal())
		if err != nil {
			return nil, err
		}
		total = next
		item.orderID = id
	}

	o := &Order{
		id:            id,
		externalRef:   strings.TrimSpace(externalRef),
		status:        Created,
		urgent:        urgent,
		shippingMode:  mode,
		createdAt:     createdAt.UTC(),
		totalValue:    total,
		items:         items,
		isConstructed: true,
	}
	o.raise(EventOrderCreated, nil, createdAt, map[string]string{"externalRef": o.externalRef})
	return o, nil
}

// RestoreOrder rebuilds an order loaded from storage. No events are raised.
func RestoreOrder(
	id kernel.UUID,
	externalRef string,
	status Status,
	released bool,
	urgent bool,
	mode ShippingMode,
	createdAt time.Time,
	totalValue kernel.Money,
	shippedAt *time.Time,
	items []*Item,
	labels []*Label,
) (*Order, error) {
	if err := errors.Join(id.Validate(), status.Validate(), mode.Validate(), totalValue.Validate()); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if !item.orderID.IsEqual(id) {
			return nil, errs.NewValueIsInvalidError("item " + item.id.String() + " belongs to another order")
		}
	}
	for _, label := range labels {
		if err := label.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            id,
		externalRef:   externalRef,
		status:        status,
		released:      released,
		urgent:        urgent,
		shippingMode:  mode,
		createdAt:     createdAt,
		totalValue:    totalValue,
		shippedAt:     shippedAt,
		items:         items,
		labels:        labels,
		isConstructed: true,
	}, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID            { return o.id }
func (o *Order) ExternalRef() string        { return o.externalRef }
func (o *Order) Status() Status             { return o.status }
func (o *Order) Released() bool             { return o.released }
func (o *Order) Urgent() bool               { return o.urgent }
func (o *Order) ShippingMode() ShippingMode { return o.shippingMode }
func (o *Order) CreatedAt() time.Time       { return o.createdAt }
func (o *Order) TotalValue() kernel.Money   { return o.totalValue }

// ShippedAt is nil until the order enters Shipped.
func (o *Order) ShippedAt() *time.Time {
	if o.shippedAt == nil {
		return nil
	}
	at := *o.shippedAt
	return &at
}

// Items returns a copy of the item list. The items themselves are shared.
func (o *Order) Items() []*Item {
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Labels() []*Label {
	out := make([]*Label, len(o.labels))
	copy(out, o.labels)
	return out
}

// Item finds an item by ID.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("item", itemID.String())
}

func (o *Order) label(labelID kernel.UUID) (*Label, error) {
	for _, l := range o.labels {
		if l.id.IsEqual(labelID) {
			return l, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("label", labelID.String())
}

// StartProduction moves a Created order into production.
func (o *Order) StartProduction(at time.Time) error {
	return o.transition(o.status.StartProduction, at)
}

// MarkReadyForLogistics marks production as finished.
func (o *Order) MarkReadyForLogistics(at time.Time) error {
	return o.transition(o.status.MarkReadyForLogistics, at)
}

// StartLogistics opens the barcode verification stage.
func (o *Order) StartLogistics(at time.Time) error {
	return o.transition(o.status.StartLogistics, at)
}

// Cancel is an operator action allowed from any non-terminal status.
func (o *Order) Cancel(at time.Time) error {
	return o.transition(o.status.Cancel, at)
}

// Return is an operator action allowed from any non-terminal status and from Shipped.
func (o *Order) Return(at time.Time) error {
	return o.transition(o.status.Return, at)
}

// OverrideStatus forces the order into target, bypassing the automatic flow.
// Entering Shipped still requires the order to be released.
func (o *Order) OverrideStatus(target Status, at time.Time) error {
	next, err := o.status.Override(target)
	if err != nil {
		return err
	}
	if next == Shipped {
		if err = o.requireReleased(); err != nil {
			return err
		}
	}
	return o.setStatus(next, at, "override")
}

func (o *Order) transition(step func() (Status, error), at time.Time) error {
	next, err := step()
	if err != nil {
		return err
	}
	return o.setStatus(next, at, "operator")
}

func (o *Order) setStatus(next Status, at time.Time, cause string) error {
	prev := o.status
	o.status = next
	o.raise(EventStatusChanged, nil, at, map[string]string{
		"from":  prev.String(),
		"to":    next.String(),
		"cause": cause,
	})
	if next == Shipped {
		shipped := at.UTC()
		o.shippedAt = &shipped
		o.raise(EventShipped, nil, at, map[string]string{"mode": o.shippingMode.String()})
	}
	return nil
}

// ResolvedUpsell describes an applied up-sell decision.
type ResolvedUpsell struct {
	Item     *Item
	From     kernel.ProductRef
	Decision upsell.Decision
	Delta    decimal.Decimal
}

// ResolveUpsell applies a decision to an eligible item awaiting one.
//   - Keep only records the decision.
//   - Upgrade swaps the product, raises the unit price and totalValue by the delta.
//   - FreeUpgrade swaps the product and keeps the unit price.
//
// Resolving an item twice, or resolving a non-eligible item, is a conflict.
// The order is not released here; callers run EvaluateAutoRelease afterwards.
func (o *Order) ResolveUpsell(itemID kernel.UUID, resolution upsell.Resolution, at time.Time) (*ResolvedUpsell, error) {
	if err := resolution.Validate(); err != nil {
		return nil, err
	}
	if o.status.IsTerminal() {
		return nil, errs.NewConflictError("order", o.id.String(), "cannot resolve up-sell on a "+o.status.String()+" order")
	}
	item, err := o.Item(itemID)
	if err != nil {
		return nil, err
	}
	if !item.upsellEligible {
		return nil, errs.NewConflictError("item", itemID.String(), "item is not up-sell eligible")
	}
	if !item.upsellStatus.IsPending() {
		return nil, errs.NewConflictError("item", itemID.String(), "up-sell already resolved as "+item.upsellStatus.String())
	}
	if resolution.Decision().ChangesProduct() && resolution.Target().SameLine(item.product) {
		return nil, errs.NewValueIsInvalidError("upgrade target must differ from the current product")
	}

	out := &ResolvedUpsell{Item: item, From: item.product, Decision: resolution.Decision(), Delta: decimal.Zero}

	switch resolution.Decision() {
	case upsell.Keep:
		item.upsellStatus = UpsellKept
	case upsell.Upgrade:
		price, priceErr := item.unitPrice.Add(resolution.Delta())
		if priceErr != nil {
			return nil, priceErr
		}
		total, totalErr := o.totalValue.Add(resolution.Delta())
		if totalErr != nil {
			return nil, totalErr
		}
		item.product = resolution.Target()
		item.unitPrice = price
		item.upsellStatus = UpsellUpgraded
		o.totalValue = total
		out.Delta = resolution.Delta()
	case upsell.FreeUpgrade:
		item.product = resolution.Target()
		item.upsellStatus = UpsellFreeUpgrade
	default:
		return nil, errs.NewValueIsInvalidError("decision")
	}

	o.raise(EventUpsellResolved, &itemID, at, map[string]string{
		"decision": resolution.Decision().String(),
		"delta":    out.Delta.StringFixed(2),
		"total":    o.totalValue.String(),
	})
	return out, nil
}

// RemoveItem deletes a unit from the order and lowers totalValue by its unit price.
func (o *Order) RemoveItem(itemID kernel.UUID, at time.Time) error {
	if o.status.IsTerminal() {
		return errs.NewConflictError("order", o.id.String(), "cannot remove items from a "+o.status.String()+" order")
	}
	idx := -1
	for i, item := range o.items {
		if item.id.IsEqual(itemID) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errs.NewObjectNotFoundError("item", itemID.String())
	}

	total, err := o.totalValue.Sub(o.items[idx].unitPrice)
	if err != nil {
		return err
	}
	o.totalValue = total
	o.items = append(o.items[:idx:idx], o.items[idx+1:]...)
	o.raise(EventItemRemoved, &itemID, at, map[string]string{"total": o.totalValue.String()})
	return nil
}

// MarkItemScanned records that the physical unit carrying code was matched to itemID.
func (o *Order) MarkItemScanned(itemID kernel.UUID, code string, at time.Time) error {
	if o.status != InLogistics {
		return errs.NewConflictError("order", o.id.String(), "order is not in logistics")
	}
	item, err := o.Item(itemID)
	if err != nil {
		return err
	}
	if item.scanned {
		return errs.NewConflictError("item", itemID.String(), "item is already scanned")
	}
	if !item.expectedBarcode.Matches(code) {
		return errs.NewValueIsInvalidError("barcode does not match item " + itemID.String())
	}

	item.markScanned(at)
	o.raise(EventItemScanned, &itemID, at, map[string]string{
		"barcode":   item.expectedBarcode.String(),
		"remaining": strconv.Itoa(o.UnscannedCount()),
	})
	return nil
}

// UnscannedCount returns the number of units still waiting for a scan.
func (o *Order) UnscannedCount() int {
	n := 0
	for _, item := range o.items {
		if !item.scanned {
			n++
		}
	}
	return n
}

// IsFullyScanned holds when the order has items and every one of them is scanned.
func (o *Order) IsFullyScanned() bool {
	return len(o.items) > 0 && o.UnscannedCount() == 0
}

// AttachUploadedLabel stores a pre-uploaded label on a manually labeled order.
func (o *Order) AttachUploadedLabel(labelID kernel.UUID, reference string, at time.Time) (*Label, error) {
	if o.shippingMode != ManualLabel {
		return nil, errs.NewConflictError("order", o.id.String(), "labels can only be uploaded for manually labeled orders")
	}
	if o.status.IsTerminal() {
		return nil, errs.NewConflictError("order", o.id.String(), "cannot attach labels to a "+o.status.String()+" order")
	}
	l, err := NewLabel(labelID, reference, UploadedLabel, at)
	if err != nil {
		return nil, err
	}
	o.labels = append(o.labels, l)
	o.raise(EventLabelAttached, nil, at, map[string]string{"labelId": labelID.String(), "source": l.source.String()})
	return l, nil
}

// MarkLabelViewed records that the operator opened the label. Repeated calls
// keep the first viewing time.
func (o *Order) MarkLabelViewed(labelID kernel.UUID, at time.Time) error {
	l, err := o.label(labelID)
	if err != nil {
		return err
	}
	if l.markViewed(at) {
		o.raise(EventLabelViewed, nil, at, map[string]string{"labelId": labelID.String()})
	}
	return nil
}

// UnviewedLabels lists uploaded labels the operator has not opened yet.
func (o *Order) UnviewedLabels() []*Label {
	var out []*Label
	for _, l := range o.labels {
		if l.source == UploadedLabel && !l.Viewed() {
			out = append(out, l)
		}
	}
	return out
}

func (o *Order) uploadedLabelCount() int {
	n := 0
	for _, l := range o.labels {
		if l.source == UploadedLabel {
			n++
		}
	}
	return n
}

// CanShipWithCarrierLabel returns the first gate that keeps a carrier
// integrated order from requesting its label, or nil.
func (o *Order) CanShipWithCarrierLabel() error {
	if o.shippingMode != CarrierIntegrated {
		return errs.NewConflictError("order", o.id.String(), "order is not carrier integrated")
	}
	return o.checkReadyToShip()
}

// CanShipManually returns the first gate that keeps a manually labeled order
// from being marked as shipped, or nil.
func (o *Order) CanShipManually() error {
	if o.shippingMode != ManualLabel {
		return errs.NewConflictError("order", o.id.String(), "order is not manually labeled")
	}
	if err := o.checkReadyToShip(); err != nil {
		return err
	}
	if o.uploadedLabelCount() == 0 {
		return errs.NewConflictError("order", o.id.String(), "no label has been uploaded")
	}
	if pending := o.UnviewedLabels(); len(pending) > 0 {
		return errs.NewConflictError("order", o.id.String(), strconv.Itoa(len(pending))+" labels have not been viewed")
	}
	return nil
}

// ShipWithCarrierLabel attaches the label issued by the carrier and moves the
// order to Shipped.
func (o *Order) ShipWithCarrierLabel(labelID kernel.UUID, reference string, at time.Time) (*Label, error) {
	if err := o.CanShipWithCarrierLabel(); err != nil {
		return nil, err
	}
	l, err := NewLabel(labelID, reference, CarrierLabel, at)
	if err != nil {
		return nil, err
	}
	next, err := o.status.Ship()
	if err != nil {
		return nil, err
	}
	o.labels = append(o.labels, l)
	o.raise(EventLabelAttached, nil, at, map[string]string{"labelId": labelID.String(), "source": l.source.String()})
	return l, o.setStatus(next, at, "carrier_label")
}

// ShipManually moves a manually labeled order to Shipped once every item is
// scanned and every uploaded label has been viewed.
func (o *Order) ShipManually(at time.Time) error {
	if err := o.CanShipManually(); err != nil {
		return err
	}
	next, err := o.status.Ship()
	if err != nil {
		return err
	}
	return o.setStatus(next, at, "manual_label")
}

func (o *Order) checkReadyToShip() error {
	if o.status != InLogistics {
		return errs.NewConflictError("order", o.id.String(), "order is not in logistics")
	}
	if len(o.items) == 0 {
		return errs.NewConflictError("order", o.id.String(), "order has no items")
	}
	if !o.IsFullyScanned() {
		return errs.NewConflictError("order", o.id.String(), strconv.Itoa(o.UnscannedCount())+" items are not scanned")
	}
	return o.requireReleased()
}

func (o *Order) requireReleased() error {
	if !o.released {
		return errs.NewConflictError("order", o.id.String(), "order is not released")
	}
	return nil
}
