package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// MaxLogisticsQueueLimit bounds one page of the logistics queue.
const MaxLogisticsQueueLimit = 500

var ErrGetLogisticsQueueQueryIsNotConstructed = errors.New(
	"GetLogisticsQueueQuery must be created via NewGetLogisticsQueueQuery constructor",
)

// GetLogisticsQueueQuery lists the orders currently InLogistics in the order
// operators should work them: urgent first, then oldest.
//
// Example:
//
//	query, _ := NewGetLogisticsQueueQuery(100)
//	queue, err := handler.Handle(ctx, query)
//	for _, entry := range queue {
//	    fmt.Printf("%s %d/%d scanned\n", entry.ExternalRef, entry.ItemCount-entry.Unscanned, entry.ItemCount)
//	}
type GetLogisticsQueueQuery struct {
	limit int
	guard guard.ConstructorGuard
}

func NewGetLogisticsQueueQuery(limit int) (GetLogisticsQueueQuery, error) {
	if limit < 1 || limit > MaxLogisticsQueueLimit {
		return GetLogisticsQueueQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxLogisticsQueueLimit)
	}
	return GetLogisticsQueueQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLogisticsQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetLogisticsQueueQueryIsNotConstructed)
}

func (q GetLogisticsQueueQuery) Limit() int { return q.limit }

type GetLogisticsQueueQueryResponse struct {
	OrderID      kernel.UUID
	ExternalRef  string
	Urgent       bool
	Released     bool
	ShippingMode string
	CreatedAt    time.Time
	ItemCount    int
	Unscanned    int
}
