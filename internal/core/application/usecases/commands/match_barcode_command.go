package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrMatchBarcodeCommandIsNotConstructed = errors.New(
	"MatchBarcodeCommand must be created via NewMatchBarcodeCommand constructor",
)

// MatchBarcodeCommand claims the best unscanned unit expecting the scanned code.
type MatchBarcodeCommand struct { //nolint:recvcheck //using for validation
	barcode    kernel.Barcode
	operatorID string

	guard guard.ConstructorGuard
}

func NewMatchBarcodeCommand(code string, operatorID string) (MatchBarcodeCommand, error) {
	barcode, errBarcode := kernel.NewBarcode(code)
	var errOperator error
	if strings.TrimSpace(operatorID) == "" {
		errOperator = errs.NewValueIsRequiredError("operatorId")
	}
	if err := errors.Join(errBarcode, errOperator); err != nil {
		return MatchBarcodeCommand{}, err
	}

	return MatchBarcodeCommand{
		barcode:    barcode,
		operatorID: operatorID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c MatchBarcodeCommand) Validate() error {
	return c.guard.Validate(ErrMatchBarcodeCommandIsNotConstructed)
}

func (c MatchBarcodeCommand) Barcode() kernel.Barcode { return c.barcode }
func (c MatchBarcodeCommand) OperatorID() string      { return c.operatorID }
