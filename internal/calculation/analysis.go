package calculation

import (
	"math"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// GrowthSummary compares the first and last projected years.
type GrowthSummary struct {
	FromYear      int                        `json:"from_year"`
	ToYear        int                        `json:"to_year"`
	RevenueCAGR   decimal.Decimal            `json:"revenue_cagr"`
	NetIncomeCAGR decimal.Decimal            `json:"net_income_cagr"`
	PriceMultiple map[string]decimal.Decimal `json:"price_multiple"`
	// LargestContributor is the breakdown category with the highest revenue in the last year.
	LargestContributor string `json:"largest_contributor"`
}

// Summarize derives compound growth rates and stock price multiples from
// engine output. It returns nil for fewer than two years.
func Summarize(results []domain.YearlyResult) *GrowthSummary {
	if len(results) < 2 {
		return nil
	}
	first, last := results[0], results[len(results)-1]
	span := last.Year - first.Year

	summary := &GrowthSummary{
		FromYear:      first.Year,
		ToYear:        last.Year,
		RevenueCAGR:   cagr(first.TotalRevenue, last.TotalRevenue, span),
		NetIncomeCAGR: cagr(first.NetIncome, last.NetIncome, span),
		PriceMultiple: make(map[string]decimal.Decimal, len(last.Valuations)),
	}
	for _, v := range last.Valuations {
		start, ok := first.Valuation(v.Scenario)
		if !ok || start.StockPrice.IsZero() {
			continue
		}
		summary.PriceMultiple[v.Scenario] = v.StockPrice.Div(start.StockPrice)
	}

	best := decimal.Zero
	for i, line := range last.RevenueBreakdown {
		if i == 0 || line.Revenue.GreaterThan(best) {
			best = line.Revenue
			summary.LargestContributor = line.Category
		}
	}
	return summary
}

// cagr returns (end/start)^(1/years)-1. Non-positive endpoints have no
// meaningful compound rate and yield zero.
func cagr(start, end decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || !start.IsPositive() || !end.IsPositive() {
		return decimal.Zero
	}
	ratio := end.Div(start).InexactFloat64()
	return decimal.NewFromFloat(math.Pow(ratio, 1/float64(years)) - 1)
}
