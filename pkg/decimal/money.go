package decimal

import (
	"github.com/shopspring/decimal"
)

var (
	million = decimal.NewFromInt(1_000_000)
	billion = decimal.NewFromInt(1_000_000_000)
)

// Money is a dollar amount carried at full precision. Scaling helpers convert
// to the millions and billions used in valuation tables.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// FromMillions converts an amount stated in millions of dollars.
func FromMillions(d decimal.Decimal) Money {
	return Money{d.Mul(million)}
}

// Millions returns the amount in millions of dollars.
func (m Money) Millions() decimal.Decimal {
	return m.Decimal.Div(million)
}

// Billions returns the amount in billions of dollars.
func (m Money) Billions() decimal.Decimal {
	return m.Decimal.Div(billion)
}

// String returns the amount to the cent
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the amount with a dollar sign
func (m Money) Format() string {
	if m.IsNegative() {
		return "-$" + Money{m.Decimal.Neg()}.String()
	}
	return "$" + m.String()
}
