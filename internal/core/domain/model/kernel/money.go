package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits kept for every amount.
const moneyScale = 2

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney or MoneyFromString")

// Money is a non-negative amount rounded to cents. It backs order totals and
// item unit prices. Deltas, which may be of either sign, stay plain
// decimal.Decimal values.
type Money struct {
	amount        decimal.Decimal
	isConstructed bool
}

// NewMoney rounds amount to cents and rejects negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	rounded := amount.Round(moneyScale)
	if rounded.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("money", rounded.StringFixed(moneyScale), "0.00", "unbounded")
	}
	return Money{amount: rounded, isConstructed: true}, nil
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, isConstructed: true}
}

// MoneyFromString parses a decimal literal such as "19.90".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%q is not a decimal: %w", s, err))
	}
	return NewMoney(d)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Add applies a signed delta. The result must stay non-negative.
func (m Money) Add(delta decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Add(delta))
}

// Sub subtracts another amount. The result must stay non-negative.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount.Sub(other.amount))
}

func (m Money) Validate() error {
	if !m.isConstructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}
