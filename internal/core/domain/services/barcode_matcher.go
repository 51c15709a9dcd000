package services

import (
	"fulfillment/internal/core/domain/model/scan"
	"fulfillment/internal/pkg/errs"
)

// BarcodeMatcher picks which unscanned unit a scanned code belongs to when
// several items across the logistics queue expect the same code.
//
// Priority, most significant first:
//   - urgent orders
//   - older orders
//   - orders with exactly one unit left to scan
//   - orders with more units left to scan
//   - orders with fewer distinct product lines
//   - lowest item ID
//
// The last key is unique, so the ranking is a strict total order and the
// winner does not depend on the order candidates are listed in.
type BarcodeMatcher struct{}

func NewBarcodeMatcher() BarcodeMatcher {
	return BarcodeMatcher{}
}

// Select returns the highest ranked candidate, or errs.ObjectNotFoundError
// when the list is empty.
func (m BarcodeMatcher) Select(code string, candidates []scan.Candidate) (scan.Candidate, error) {
	if len(candidates) == 0 {
		return scan.Candidate{}, errs.NewObjectNotFoundError("barcode", code)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if m.Less(c, best) {
			best = c
		}
	}
	return best, nil
}

// Less reports whether a ranks strictly before b.
func (m BarcodeMatcher) Less(a, b scan.Candidate) bool {
	if a.Urgent != b.Urgent {
		return a.Urgent
	}
	if !a.OrderCreatedAt.Equal(b.OrderCreatedAt) {
		return a.OrderCreatedAt.Before(b.OrderCreatedAt)
	}
	aLast, bLast := a.Remaining == 1, b.Remaining == 1
	if aLast != bLast {
		return aLast
	}
	if a.Remaining != b.Remaining {
		return a.Remaining > b.Remaining
	}
	if a.DistinctLines != b.DistinctLines {
		return a.DistinctLines < b.DistinctLines
	}
	return a.ItemID.Compare(b.ItemID) < 0
}
