package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery loads the presentation view of one order.
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the order as shown to operators.
//
// Up-sell eligible units are listed one per line because each needs its own
// decision. Non-eligible units with the same product, variant and unit price
// are merged into a single line with a quantity.
type GetOrderQueryResponse struct {
	ID           kernel.UUID
	ExternalRef  string
	Status       string
	Released     bool
	Urgent       bool
	ShippingMode string
	TotalValue   string
	CreatedAt    time.Time
	ShippedAt    *time.Time
	Lines        []OrderLine
	Labels       []OrderLabel
	// PendingUpsell lists the items still awaiting a decision.
	PendingUpsell []kernel.UUID
}

type OrderLine struct {
	ItemIDs         []kernel.UUID
	ProductID       string
	ProductName     string
	VariantID       string
	VariantName     string
	UnitPrice       string
	Quantity        int
	Scanned         int
	ExpectedBarcode string
	UpsellEligible  bool
	UpsellStatus    string
}

type OrderLabel struct {
	ID        kernel.UUID
	Reference string
	Source    string
	CreatedAt time.Time
	Viewed    bool
}
