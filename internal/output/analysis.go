package output

import (
	"fmt"
	"sort"

	"github.com/rpgo/valuation-simulator/internal/calculation"
	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Highlight is the headline of a run: the growth summary plus the scenario
// with the highest final stock price.
type Highlight struct {
	Summary         *calculation.GrowthSummary
	TopScenario     string
	TopStockPrice   decimal.Decimal
	FinalYear       int
	FinalNetIncome  decimal.Decimal
	FinalRevenue    decimal.Decimal
	OverrideApplied bool
}

// AnalyzeReport extracts the headline figures presenters print at the end of a report.
func AnalyzeReport(report *domain.ValuationReport) Highlight {
	if report == nil || len(report.Results) == 0 {
		return Highlight{}
	}
	last := report.Results[len(report.Results)-1]
	h := Highlight{
		Summary:        calculation.Summarize(report.Results),
		FinalYear:      last.Year,
		FinalNetIncome: last.NetIncome,
		FinalRevenue:   last.TotalRevenue,
	}
	for _, r := range report.Results {
		if r.OverrideApplied {
			h.OverrideApplied = true
		}
	}
	vals := append([]domain.ValuationRow(nil), last.Valuations...)
	sort.SliceStable(vals, func(i, j int) bool { return vals[i].StockPrice.GreaterThan(vals[j].StockPrice) })
	if len(vals) > 0 {
		h.TopScenario = vals[0].Scenario
		h.TopStockPrice = vals[0].StockPrice
	}
	return h
}

// Lines renders the highlight as plain text lines.
func (h Highlight) Lines() []string {
	if h.FinalYear == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("%d revenue: %s, net income: %s", h.FinalYear, HumanDollars(h.FinalRevenue), HumanDollars(h.FinalNetIncome)),
	}
	if h.TopScenario != "" {
		lines = append(lines, fmt.Sprintf("Highest implied price: %s at %s", h.TopScenario, FormatCurrency(h.TopStockPrice)))
	}
	if s := h.Summary; s != nil {
		lines = append(lines,
			fmt.Sprintf("Revenue CAGR %d-%d: %s", s.FromYear, s.ToYear, FormatRate(s.RevenueCAGR)),
			fmt.Sprintf("Largest contributor in %d: %s", s.ToYear, categoryLabel(s.LargestContributor)),
		)
	}
	if h.OverrideApplied {
		lines = append(lines, "Manual overrides applied (marked *)")
	}
	return lines
}
