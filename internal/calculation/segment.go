package calculation

import (
	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// SegmentInput is everything ProjectSegment needs for one segment and year.
type SegmentInput struct {
	Segment  domain.Segment
	Year     int
	BaseYear int
	Advanced bool
	// Override, when non-nil, replaces the growth projection for this year.
	// The caller decides whether the year is the designated override year.
	Override *decimal.Decimal
}

// ProjectSegment computes gross revenue, net revenue and gross profit for one
// segment in one year. It has no error conditions: negative rates and prices
// flow through the formulas unchanged.
func ProjectSegment(in SegmentInput) domain.SegmentRow {
	p := in.Segment.Params
	elapsed := in.Year - in.BaseYear

	row := domain.SegmentRow{
		Name:           in.Segment.Name,
		Kind:           p.Kind,
		GrossMarginPct: p.GrossMargin.Mul(hundred),
		Advanced:       in.Advanced,
		Overridden:     in.Override != nil,
	}

	var revenue decimal.Decimal
	switch p.Kind {
	case domain.KindUnits:
		var units decimal.Decimal
		if in.Override != nil {
			units = *in.Override
		} else {
			units = p.Units.UnitsSoldBase.Mul(growthFactor(p.Units.UnitGrowthRate, elapsed))
		}
		price := p.Units.UnitPrice
		revenue = units.Mul(price)
		row.UnitsSold = &units
		row.UnitPrice = &price
	case domain.KindRevenue:
		if in.Override != nil {
			revenue = in.Override.Mul(domain.RevenueUnit)
		} else {
			revenue = p.Revenue.RevenueBase.Mul(growthFactor(p.Revenue.RevenueGrowthRate, elapsed)).Mul(domain.RevenueUnit)
		}
	}
	row.Revenue = revenue

	if in.Advanced {
		opExpenses := revenue.Mul(p.OpExpenseRatio)
		row.NetRevenue = revenue.Sub(opExpenses)
		row.GrossProfit = row.NetRevenue.Mul(p.GrossMargin)
		row.OpExpenses = &opExpenses
	} else {
		row.NetRevenue = revenue
		row.GrossProfit = revenue.Mul(p.GrossMargin)
	}
	return row
}
