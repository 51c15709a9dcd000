package scan

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Candidate is an unscanned item of an InLogistics order whose expected
// barcode equals the scanned code, together with the order facts used to
// rank it.
type Candidate struct {
	ItemID         kernel.UUID
	OrderID        kernel.UUID
	Urgent         bool
	OrderCreatedAt time.Time
	// Remaining counts the unscanned items of the order, this one included.
	Remaining int
	// DistinctLines counts the distinct product lines of the order.
	DistinctLines int
}

// Match identifies the unit claimed by a scan.
type Match struct {
	OrderID kernel.UUID
	ItemID  kernel.UUID
}
