package upsell

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Decision is the operator's answer to an up-sell offer on one item.
type Decision int

const (
	UnknownDecision Decision = iota
	// Keep confirms the original product. Nothing else changes.
	Keep
	// Upgrade swaps the product for a more expensive one that the customer paid for.
	Upgrade
	// FreeUpgrade swaps the product at no charge.
	FreeUpgrade
)

func ParseDecision(name string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "keep":
		return Keep, nil
	case "upgrade":
		return Upgrade, nil
	case "free_upgrade", "freeupgrade":
		return FreeUpgrade, nil
	case "":
		return UnknownDecision, errs.NewValueIsRequiredError("decision")
	}
	return UnknownDecision, errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not a known decision", name))
}

func (d Decision) Validate() error {
	if d < Keep || d > FreeUpgrade {
		return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%d is not a valid decision", d))
	}
	return nil
}

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case Upgrade:
		return "upgrade"
	case FreeUpgrade:
		return "free_upgrade"
	default:
		return "unknown"
	}
}

// ChangesProduct reports whether the decision replaces the item's product.
func (d Decision) ChangesProduct() bool {
	return d == Upgrade || d == FreeUpgrade
}
