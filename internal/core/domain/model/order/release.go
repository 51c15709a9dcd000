package order

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// ReleaseAssessment is a snapshot of the facts the release rules look at.
type ReleaseAssessment struct {
	ItemCount      int
	HasNonEligible bool
	Pending        []*Item
}

// CanAutoRelease holds when the order has items, every item is up-sell
// eligible, and none is still awaiting a decision. A single non-eligible
// item disables auto-release for good.
func (a ReleaseAssessment) CanAutoRelease() bool {
	return a.ItemCount > 0 && !a.HasNonEligible && len(a.Pending) == 0
}

// CanManualRelease holds when no eligible item is awaiting a decision.
func (a ReleaseAssessment) CanManualRelease() bool {
	return len(a.Pending) == 0
}

// AssessRelease inspects the current items. Items removed earlier are simply
// absent and do not take part in the rules.
func (o *Order) AssessRelease() ReleaseAssessment {
	a := ReleaseAssessment{ItemCount: len(o.items)}
	for _, item := range o.items {
		if !item.upsellEligible {
			a.HasNonEligible = true
			continue
		}
		if item.upsellStatus.IsPending() {
			a.Pending = append(a.Pending, item)
		}
	}
	return a
}

// PendingUpsellItems lists eligible items still awaiting a decision.
func (o *Order) PendingUpsellItems() []*Item {
	return o.AssessRelease().Pending
}

// EvaluateAutoRelease releases the order when the auto-release rule holds and
// reports whether the order is released afterwards. Calling it again on a
// released order changes nothing.
func (o *Order) EvaluateAutoRelease(at time.Time) bool {
	if o.released {
		return true
	}
	if o.status.IsTerminal() {
		return false
	}
	if !o.AssessRelease().CanAutoRelease() {
		return false
	}
	o.release("auto", at)
	return true
}

// ManualRelease releases the order on operator request. While eligible items
// are awaiting a decision it fails with an errs.BlockedError listing them.
// Releasing an already released order succeeds without changes.
func (o *Order) ManualRelease(at time.Time) error {
	if o.released {
		return nil
	}
	if o.status == Cancelled || o.status == Returned {
		return errs.NewConflictError("order", o.id.String(), "cannot release a "+o.status.String()+" order")
	}

	a := o.AssessRelease()
	if !a.CanManualRelease() {
		pending := make([]errs.PendingItem, 0, len(a.Pending))
		for _, item := range a.Pending {
			pending = append(pending, errs.PendingItem{
				ItemID:      item.id.String(),
				ProductName: item.product.ProductName(),
				VariantName: item.product.VariantName(),
			})
		}
		return errs.NewBlockedError(o.id.String(), pending)
	}

	o.release("manual", at)
	return nil
}

func (o *Order) release(mode string, at time.Time) {
	o.released = true
	o.raise(EventReleased, nil, at, map[string]string{"mode": mode})
}
