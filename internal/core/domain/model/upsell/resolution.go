package upsell

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrResolutionIsNotConstructed = errors.New("Resolution must be created via NewKeepResolution, NewUpgradeResolution or NewFreeUpgradeResolution")

// Resolution is a validated decision together with the payload that
// decision requires.
type Resolution struct {
	decision      Decision
	target        kernel.ProductRef
	delta         decimal.Decimal
	capturedAt    time.Time
	paymentMethod string
	isConstructed bool
}

func NewKeepResolution() Resolution {
	return Resolution{decision: Keep, delta: decimal.Zero, isConstructed: true}
}

// Payment is what the operator captured for a paid upgrade.
type Payment struct {
	CapturedAt time.Time
	Method     string
}

// NewUpgradeResolution describes a paid upgrade. delta is the new unit price
// minus the original one; it must be positive and carry at most two decimal
// places.
func NewUpgradeResolution(
	target kernel.ProductRef,
	delta decimal.Decimal,
	capturedAt time.Time,
	paymentMethod string,
) (Resolution, error) {
	var errDelta error
	switch {
	case !delta.Equal(delta.Round(2)):
		errDelta = errs.NewValueIsInvalidErrorWithCause("priceDelta",
			fmt.Errorf("%s has more than two decimal places", delta.String()))
	case !delta.IsPositive():
		errDelta = errs.NewValueIsOutOfRangeError("priceDelta", delta.String(), "0.01", "unbounded")
	}
	var errCaptured error
	if capturedAt.IsZero() {
		errCaptured = errs.NewValueIsRequiredError("capturedAt")
	}
	var errPayment error
	if strings.TrimSpace(paymentMethod) == "" {
		errPayment = errs.NewValueIsRequiredError("paymentMethod")
	}
	if err := errors.Join(target.Validate(), errDelta, errCaptured, errPayment); err != nil {
		return Resolution{}, err
	}

	return Resolution{
		decision:      Upgrade,
		target:        target,
		delta:         delta,
		capturedAt:    capturedAt.UTC(),
		paymentMethod: strings.TrimSpace(paymentMethod),
		isConstructed: true,
	}, nil
}

// NewFreeUpgradeResolution swaps the product without touching the price.
func NewFreeUpgradeResolution(target kernel.ProductRef) (Resolution, error) {
	if err := target.Validate(); err != nil {
		return Resolution{}, fmt.Errorf("free upgrade target: %w", err)
	}
	return Resolution{decision: FreeUpgrade, target: target, delta: decimal.Zero, isConstructed: true}, nil
}

func (r Resolution) Decision() Decision        { return r.decision }
func (r Resolution) Target() kernel.ProductRef { return r.target }
func (r Resolution) Delta() decimal.Decimal    { return r.delta }
func (r Resolution) CapturedAt() time.Time     { return r.capturedAt }
func (r Resolution) PaymentMethod() string     { return r.paymentMethod }

// Payment returns the captured payment of an Upgrade and nil otherwise.
func (r Resolution) Payment() *Payment {
	if r.decision != Upgrade {
		return nil
	}
	return &Payment{CapturedAt: r.capturedAt, Method: r.paymentMethod}
}

func (r Resolution) Validate() error {
	if !r.isConstructed {
		return ErrResolutionIsNotConstructed
	}
	return nil
}
