package calculation

import (
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// FindPriceTargetCrossing finds the first projected year in which the stock
// price under scenario reaches target. The crossing is interpolated linearly
// between the previous and the crossing year. If the target is never reached,
// returns nil, nil.
func FindPriceTargetCrossing(results []domain.YearlyResult, scenario string, target decimal.Decimal) (*domain.PriceTargetCrossing, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no projection results")
	}
	if _, ok := results[0].Valuation(scenario); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScenario, scenario)
	}

	var prev *domain.ValuationRow
	prevYear := 0
	for i := range results {
		row, _ := results[i].Valuation(scenario)
		if row.StockPrice.GreaterThanOrEqual(target) {
			crossing := &domain.PriceTargetCrossing{
				Scenario:       scenario,
				Target:         target,
				Year:           results[i].Year,
				YearIndex:      i,
				StockPrice:     row.StockPrice,
				FractionalYear: decimal.NewFromInt(int64(results[i].Year)),
			}
			if prev != nil {
				denom := row.StockPrice.Sub(prev.StockPrice)
				if denom.IsPositive() {
					t := target.Sub(prev.StockPrice).Div(denom)
					// Clamp t to [0,1]
					if t.LessThan(decimal.Zero) {
						t = decimal.Zero
					} else if t.GreaterThan(one) {
						t = one
					}
					span := decimal.NewFromInt(int64(results[i].Year - prevYear))
					crossing.FractionalYear = decimal.NewFromInt(int64(prevYear)).Add(t.Mul(span))
				}
			}
			return crossing, nil
		}
		prev = &row
		prevYear = results[i].Year
	}

	// Target never reached
	return nil, nil
}
