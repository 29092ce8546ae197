package output

import (
	"strconv"

	"github.com/dustin/go-humanize"
	money "github.com/rpgo/valuation-simulator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var (
	decimalHundred  = decimal.NewFromInt(100)
	decimalThousand = decimal.NewFromInt(1_000)
	decimalMillion  = decimal.NewFromInt(1_000_000)
	decimalBillion  = decimal.NewFromInt(1_000_000_000)
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.05) as a percentage ("5.00%").
func FormatRate(rate decimal.Decimal) string { return FormatPercentage(rate.Mul(decimalHundred)) }

// HumanFormat abbreviates large amounts: 1.23B, 4.56M, 7.89K. Amounts under
// one thousand are rounded to an integer with thousands separators.
func HumanFormat(amount decimal.Decimal) string {
	abs := amount.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimalBillion):
		return amount.Div(decimalBillion).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimalMillion):
		return amount.Div(decimalMillion).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimalThousand):
		return amount.Div(decimalThousand).StringFixed(2) + "K"
	}
	return humanize.Comma(amount.Round(0).IntPart())
}

// HumanDollars is HumanFormat with a dollar sign.
func HumanDollars(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + HumanFormat(amount.Neg())
	}
	return "$" + HumanFormat(amount)
}

// FormatCount renders a whole quantity with thousands separators.
func FormatCount(n decimal.Decimal) string {
	return humanize.Comma(n.Round(0).IntPart())
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
