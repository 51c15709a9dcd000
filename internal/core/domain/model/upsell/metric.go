package upsell

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrMetricIsNotConstructed = errors.New("Metric must be created via NewMetric")

// Metric is an append-only record of one up-sell decision, kept for reporting.
// It never influences order state.
type Metric struct {
	id            kernel.UUID
	orderID       kernel.UUID
	orderRef      string
	itemID        kernel.UUID
	operatorID    string
	from          kernel.ProductRef
	to            kernel.ProductRef
	decision      Decision
	delta         decimal.Decimal
	payment       *Payment
	recordedAt    time.Time
	isConstructed bool
}

// NewMetric records a decision. For Keep, to equals from. payment is
// required for Upgrade and must be nil for the other decisions.
func NewMetric(
	id, orderID kernel.UUID,
	orderRef string,
	itemID kernel.UUID,
	operatorID string,
	from, to kernel.ProductRef,
	decision Decision,
	delta decimal.Decimal,
	payment *Payment,
	recordedAt time.Time,
) (*Metric, error) {
	var errOperator error
	if strings.TrimSpace(operatorID) == "" {
		errOperator = errs.NewValueIsRequiredError("operatorId")
	}
	var errRecorded error
	if recordedAt.IsZero() {
		errRecorded = errs.NewValueIsRequiredError("recordedAt")
	}
	var errPayment error
	switch {
	case decision == Upgrade && payment == nil:
		errPayment = errs.NewValueIsRequiredError("payment")
	case decision == Upgrade && (payment.CapturedAt.IsZero() || strings.TrimSpace(payment.Method) == ""):
		errPayment = errs.NewValueIsInvalidError("payment")
	case decision != Upgrade && payment != nil:
		errPayment = errs.NewValueIsInvalidErrorWithCause("payment",
			errors.New("only an upgrade carries a payment"))
	}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		itemID.Validate(),
		from.Validate(),
		to.Validate(),
		decision.Validate(),
		errOperator,
		errRecorded,
		errPayment,
	); err != nil {
		return nil, err
	}

	return &Metric{
		id:            id,
		orderID:       orderID,
		orderRef:      orderRef,
		itemID:        itemID,
		operatorID:    operatorID,
		from:          from,
		to:            to,
		decision:      decision,
		delta:         delta,
		payment:       copyPayment(payment),
		recordedAt:    recordedAt.UTC(),
		isConstructed: true,
	}, nil
}

func (m *Metric) ID() kernel.UUID         { return m.id }
func (m *Metric) OrderID() kernel.UUID    { return m.orderID }
func (m *Metric) OrderRef() string        { return m.orderRef }
func (m *Metric) ItemID() kernel.UUID     { return m.itemID }
func (m *Metric) OperatorID() string      { return m.operatorID }
func (m *Metric) From() kernel.ProductRef { return m.from }
func (m *Metric) To() kernel.ProductRef   { return m.to }
func (m *Metric) Decision() Decision      { return m.decision }
func (m *Metric) Delta() decimal.Decimal  { return m.delta }
func (m *Metric) RecordedAt() time.Time   { return m.recordedAt }

// Payment returns the captured payment of an upgrade, or nil.
func (m *Metric) Payment() *Payment { return copyPayment(m.payment) }

func copyPayment(p *Payment) *Payment {
	if p == nil {
		return nil
	}
	return &Payment{CapturedAt: p.CapturedAt.UTC(), Method: strings.TrimSpace(p.Method)}
}

func (m *Metric) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMetricIsNotConstructed
	}
	return nil
}
