package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// UpsellStatus tracks the up-sell negotiation of a single eligible item.
// Unresolved is stored as NULL and, on an eligible item, means the same as Awaiting.
type UpsellStatus int

const (
	UpsellUnresolved UpsellStatus = iota
	UpsellAwaiting
	UpsellKept
	UpsellUpgraded
	UpsellFreeUpgrade
)

func (s UpsellStatus) Validate() error {
	if s < UpsellUnresolved || s > UpsellFreeUpgrade {
		return errs.NewValueIsInvalidErrorWithCause("upsellStatus", fmt.Errorf("%d is not a valid up-sell status", s))
	}
	return nil
}

func (s UpsellStatus) String() string {
	switch s {
	case UpsellUnresolved:
		return "Unresolved"
	case UpsellAwaiting:
		return "Awaiting"
	case UpsellKept:
		return "Kept"
	case UpsellUpgraded:
		return "Upgraded"
	case UpsellFreeUpgrade:
		return "FreeUpgrade"
	default:
		return "Invalid"
	}
}

// IsPending reports whether a decision is still outstanding.
func (s UpsellStatus) IsPending() bool {
	return s == UpsellUnresolved || s == UpsellAwaiting
}

// IsTerminal reports whether a decision has been recorded.
func (s UpsellStatus) IsTerminal() bool {
	return s == UpsellKept || s == UpsellUpgraded || s == UpsellFreeUpgrade
}
