package calculation

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// growthFactor returns (1+rate)^elapsed. elapsed is never negative because
// years are validated as strictly increasing from the base year.
func growthFactor(rate decimal.Decimal, elapsed int) decimal.Decimal {
	return one.Add(rate).Pow(decimal.NewFromInt(int64(elapsed)))
}

// decayFactor returns (1-rate)^elapsed. There is no floor: rates above 1
// produce alternating or negative factors.
func decayFactor(rate decimal.Decimal, elapsed int) decimal.Decimal {
	return one.Sub(rate).Pow(decimal.NewFromInt(int64(elapsed)))
}
