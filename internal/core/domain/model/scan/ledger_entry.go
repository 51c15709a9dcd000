package scan

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrLedgerEntryIsNotConstructed = errors.New("LedgerEntry must be created via NewLedgerEntry")

// LedgerEntry is an append-only record of a physical unit matched against
// its expected barcode.
type LedgerEntry struct {
	id            kernel.UUID
	orderID       kernel.UUID
	itemID        kernel.UUID
	barcode       kernel.Barcode
	operatorID    string
	scannedAt     time.Time
	isConstructed bool
}

func NewLedgerEntry(
	id, orderID, itemID kernel.UUID,
	barcode kernel.Barcode,
	operatorID string,
	scannedAt time.Time,
) (*LedgerEntry, error) {
	var errOperator error
	if strings.TrimSpace(operatorID) == "" {
		errOperator = errs.NewValueIsRequiredError("operatorId")
	}
	var errScanned error
	if scannedAt.IsZero() {
		errScanned = errs.NewValueIsRequiredError("scannedAt")
	}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		itemID.Validate(),
		barcode.Validate(),
		errOperator,
		errScanned,
	); err != nil {
		return nil, err
	}

	return &LedgerEntry{
		id:            id,
		orderID:       orderID,
		itemID:        itemID,
		barcode:       barcode,
		operatorID:    operatorID,
		scannedAt:     scannedAt.UTC(),
		isConstructed: true,
	}, nil
}

func (e *LedgerEntry) ID() kernel.UUID         { return e.id }
func (e *LedgerEntry) OrderID() kernel.UUID    { return e.orderID }
func (e *LedgerEntry) ItemID() kernel.UUID     { return e.itemID }
func (e *LedgerEntry) Barcode() kernel.Barcode { return e.barcode }
func (e *LedgerEntry) OperatorID() string      { return e.operatorID }
func (e *LedgerEntry) ScannedAt() time.Time    { return e.scannedAt }

func (e *LedgerEntry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrLedgerEntryIsNotConstructed
	}
	return nil
}
