package services

import (
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// ReleaseOutcome reports the state of the release flag after an evaluation.
type ReleaseOutcome struct {
	Released bool
	// AutoReleased is true only when this evaluation flipped the flag.
	AutoReleased bool
}

// ReleaseGate applies the release rules to an order. Callers must pass an
// order loaded in the current transaction after the triggering change was
// written, never a copy read before it.
type ReleaseGate struct{}

func NewReleaseGate() ReleaseGate {
	return ReleaseGate{}
}

// Evaluate auto-releases the order when every item is up-sell eligible and
// none is awaiting a decision.
func (g ReleaseGate) Evaluate(o *order.Order, at time.Time) (ReleaseOutcome, error) {
	if err := o.Validate(); err != nil {
		return ReleaseOutcome{}, err
	}
	was := o.Released()
	released := o.EvaluateAutoRelease(at)
	return ReleaseOutcome{Released: released, AutoReleased: released && !was}, nil
}

// Release is the operator path. It fails with errs.BlockedError while
// eligible items are awaiting a decision.
func (g ReleaseGate) Release(o *order.Order, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.ManualRelease(at)
}
