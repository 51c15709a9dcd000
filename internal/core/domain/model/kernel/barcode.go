package kernel

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// MaxBarcodeLength bounds printed codes on package labels.
const MaxBarcodeLength = 64

var ErrBarcodeIsNotConstructed = errors.New("Barcode must be created via NewBarcode")

// Barcode is the code expected to be printed on a physical unit.
type Barcode struct {
	value         string
	isConstructed bool
}

// NewBarcode trims surrounding whitespace, which scanners commonly append,
// and validates the remaining value.
func NewBarcode(raw string) (Barcode, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Barcode{}, errs.NewValueIsRequiredError("barcode")
	}
	if len(value) > MaxBarcodeLength {
		return Barcode{}, errs.NewValueIsInvalidErrorWithCause("barcode",
			fmt.Errorf("length %d exceeds %d", len(value), MaxBarcodeLength))
	}
	return Barcode{value: value, isConstructed: true}, nil
}

func (b Barcode) String() string {
	return b.value
}

// Matches is the only predicate deciding whether a typed or scanned code
// corresponds to this barcode. Both the scan endpoint and the read-only
// pre-check go through it.
func (b Barcode) Matches(code string) bool {
	return b.isConstructed && b.value == strings.TrimSpace(code)
}

func (b Barcode) IsEqual(other Barcode) bool {
	return b.value == other.value
}

func (b Barcode) Validate() error {
	if !b.isConstructed {
		return ErrBarcodeIsNotConstructed
	}
	return nil
}
