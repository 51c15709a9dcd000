package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an order. This file is the single source
// of truth for status identifiers; persistence stores the integer value and
// the HTTP layer uses String/ParseStatus.
//
// Automatic flow:
//
//	Created ──> InProduction ──> ReadyForLogistics ──> InLogistics ──> Shipped
//
// Operator side states:
//
//	any non-terminal ──> Cancelled
//	any non-terminal, Shipped ──> Returned
//
// Operators may also force any valid status through Override.
type Status int

const (
	// Unknown catches uninitialized values and is never valid.
	Unknown Status = iota
	Created
	InProduction
	ReadyForLogistics
	InLogistics
	Shipped
	Cancelled
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "Unknown",
		Created:           "Created",
		InProduction:      "InProduction",
		ReadyForLogistics: "ReadyForLogistics",
		InLogistics:       "InLogistics",
		Shipped:           "Shipped",
		Cancelled:         "Cancelled",
		Returned:          "Returned",
	}
}

// AllStatuses lists valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Created, InProduction, ReadyForLogistics, InLogistics, Shipped, Cancelled, Returned}
}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(name string) (Status, error) {
	for _, s := range AllStatuses() {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", name))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Returned {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no automatic transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == Shipped || s == Cancelled || s == Returned
}

// StartProduction moves Created to InProduction.
func (s Status) StartProduction() (Status, error) {
	return s.advance(Created, InProduction)
}

// MarkReadyForLogistics moves InProduction to ReadyForLogistics.
func (s Status) MarkReadyForLogistics() (Status, error) {
	return s.advance(InProduction, ReadyForLogistics)
}

// StartLogistics moves ReadyForLogistics to InLogistics.
func (s Status) StartLogistics() (Status, error) {
	return s.advance(ReadyForLogistics, InLogistics)
}

// Ship moves InLogistics to Shipped. Release and label gates are checked by
// the order, not here.
func (s Status) Ship() (Status, error) {
	return s.advance(InLogistics, Shipped)
}

// Cancel is allowed from every non-terminal status.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, s.transitionError(Cancelled)
	}
	return Cancelled, nil
}

// Return is allowed from every non-terminal status and from Shipped.
func (s Status) Return() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() && s != Shipped {
		return Unknown, s.transitionError(Returned)
	}
	return Returned, nil
}

// Override forces a transition to any other valid status.
func (s Status) Override(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if s == target {
		return Unknown, errs.NewConflictError("status", s.String(), "order is already in this status")
	}
	return target, nil
}

func (s Status) advance(from, to Status) (Status, error) {
	if s != from {
		return Unknown, s.transitionError(to)
	}
	return to, nil
}

func (s Status) transitionError(to Status) error {
	return errs.NewConflictError("status", s.String(), fmt.Sprintf("cannot transition to %s", to))
}
