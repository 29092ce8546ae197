package calculation

import (
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Consolidation is the company-level roll-up of one year.
type Consolidation struct {
	RevenueBreakdown  []domain.RevenueLine
	TotalRevenue      decimal.Decimal
	NetIncome         decimal.Decimal
	SharesOutstanding decimal.Decimal
	Valuations        []domain.ValuationRow
}

// Consolidate sums segment net revenue and network company earnings, derives
// net income and values it under every P/E scenario in input order.
func Consolidate(a *domain.Assumptions, year int, segments []domain.SegmentRow, network domain.NetworkRow) (Consolidation, error) {
	elapsed := year - a.BaseYear()

	c := Consolidation{RevenueBreakdown: make([]domain.RevenueLine, 0, len(segments)+1)}
	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.NetRevenue)
		c.RevenueBreakdown = append(c.RevenueBreakdown, domain.RevenueLine{Category: s.Name, Revenue: s.NetRevenue})
	}
	total = total.Add(network.CompanyEarnings)
	c.RevenueBreakdown = append(c.RevenueBreakdown, domain.RevenueLine{Category: domain.NetworkToggleKey, Revenue: network.CompanyEarnings})

	c.TotalRevenue = total
	c.NetIncome = total.Mul(a.NetProfitMargin)
	c.SharesOutstanding = a.SharesBase.Mul(growthFactor(a.SharesGrowthRate, elapsed))
	if !c.SharesOutstanding.IsPositive() {
		return Consolidation{}, &domain.YearError{
			Year: year,
			Err:  fmt.Errorf("%w: %s shares outstanding", domain.ErrNonPositiveShares, c.SharesOutstanding.String()),
		}
	}

	c.Valuations = make([]domain.ValuationRow, 0, len(a.PEScenarios))
	for _, sc := range a.PEScenarios {
		marketCap := c.NetIncome.Mul(sc.Ratio)
		c.Valuations = append(c.Valuations, domain.ValuationRow{
			Scenario:   sc.Label,
			PERatio:    sc.Ratio,
			NetIncome:  c.NetIncome,
			MarketCap:  marketCap,
			StockPrice: marketCap.Div(c.SharesOutstanding),
		})
	}
	return c, nil
}
