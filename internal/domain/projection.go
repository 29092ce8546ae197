package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingPath selects how operating expenses are treated.
type AccountingPath string

const (
	PathGross    AccountingPath = "gross"
	PathAdvanced AccountingPath = "advanced"
)

// PathFor maps an advanced toggle to its accounting path.
func PathFor(advanced bool) AccountingPath {
	if advanced {
		return PathAdvanced
	}
	return PathGross
}

// SegmentRow is one segment's projection for a single year. Amounts are in dollars.
type SegmentRow struct {
	Name string      `json:"name"`
	Kind SegmentKind `json:"kind"`

	// Unit segments only (nil for revenue segments)
	UnitsSold *decimal.Decimal `json:"units_sold,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`

	GrossMarginPct decimal.Decimal `json:"gross_margin_pct"`
	Revenue        decimal.Decimal `json:"revenue"`
	NetRevenue     decimal.Decimal `json:"net_revenue"`
	GrossProfit    decimal.Decimal `json:"gross_profit"`

	// Advanced path only
	OpExpenses *decimal.Decimal `json:"op_expenses,omitempty"`

	Advanced   bool `json:"advanced"`
	Overridden bool `json:"overridden"`
}

// AdvancedNetworkEconomics carries the utilization-aware network breakdown.
type AdvancedNetworkEconomics struct {
	UtilizedMilesPerVehicle decimal.Decimal `json:"utilized_miles_per_vehicle"`
	TotalMiles              decimal.Decimal `json:"total_miles"`
	GrossRevenue            decimal.Decimal `json:"gross_revenue"`
	OwnerEarnings           decimal.Decimal `json:"owner_earnings"`
	CompanyGross            decimal.Decimal `json:"company_gross"`
	OperatingCosts          decimal.Decimal `json:"operating_costs"`
	CompanyNet              decimal.Decimal `json:"company_net"`
}

// SimpleNetworkEconomics ignores utilization and costs.
type SimpleNetworkEconomics struct {
	MilesPerVehicle decimal.Decimal `json:"miles_per_vehicle"`
	TotalMiles      decimal.Decimal `json:"total_miles"`
	CompanyEarnings decimal.Decimal `json:"company_earnings"`
}

// NetworkRow is the network projection for a single year. Exactly one of
// Advanced or Simple is set, according to Path.
type NetworkRow struct {
	Path                 AccountingPath  `json:"path"`
	Vehicles             decimal.Decimal `json:"vehicles"`
	UtilizationRate      decimal.Decimal `json:"utilization_rate"`
	OperatingCostPerMile decimal.Decimal `json:"operating_cost_per_mile"`
	RiderRatePerMile     decimal.Decimal `json:"rider_rate_per_mile"`
	OwnerCutPerMile      decimal.Decimal `json:"owner_cut_per_mile"`
	OperatorCutPerMile   decimal.Decimal `json:"operator_cut_per_mile"`

	// CompanyEarnings is the value fed forward into consolidation.
	CompanyEarnings decimal.Decimal `json:"company_earnings"`

	Advanced *AdvancedNetworkEconomics `json:"advanced,omitempty"`
	Simple   *SimpleNetworkEconomics   `json:"simple,omitempty"`
}

// TotalMiles returns total network miles for whichever path is active.
func (n NetworkRow) TotalMiles() decimal.Decimal {
	switch {
	case n.Advanced != nil:
		return n.Advanced.TotalMiles
	case n.Simple != nil:
		return n.Simple.TotalMiles
	}
	return decimal.Zero
}

// RevenueLine is one entry of the consolidated revenue breakdown.
type RevenueLine struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ValuationRow is the implied valuation under one P/E scenario.
type ValuationRow struct {
	Scenario   string          `json:"scenario"`
	PERatio    decimal.Decimal `json:"pe_ratio"`
	NetIncome  decimal.Decimal `json:"net_income"`
	MarketCap  decimal.Decimal `json:"market_cap"`
	StockPrice decimal.Decimal `json:"stock_price"`
}

// YearlyResult is the complete projection for one year. It never changes
// after the engine returns it.
type YearlyResult struct {
	Year    int `json:"year"`
	Elapsed int `json:"elapsed"`

	Segments         []SegmentRow  `json:"segments"`
	Network          NetworkRow    `json:"network"`
	RevenueBreakdown []RevenueLine `json:"revenue_breakdown"`

	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	NetIncome         decimal.Decimal `json:"net_income"`
	SharesOutstanding decimal.Decimal `json:"shares_outstanding"`
	Valuations        []ValuationRow  `json:"valuations"`

	OverrideApplied bool `json:"override_applied"`
}

// Valuation returns the row for scenario label.
func (y *YearlyResult) Valuation(label string) (ValuationRow, bool) {
	for _, v := range y.Valuations {
		if v.Scenario == label {
			return v, true
		}
	}
	return ValuationRow{}, false
}

// SegmentByName returns the row for segment name.
func (y *YearlyResult) SegmentByName(name string) (SegmentRow, bool) {
	for _, s := range y.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return SegmentRow{}, false
}

// BreakdownTotal sums the revenue breakdown lines.
func (y *YearlyResult) BreakdownTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range y.RevenueBreakdown {
		total = total.Add(l.Revenue)
	}
	return total
}

// ValuationReport bundles a run for presenters and exporters.
type ValuationReport struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Assumptions *Assumptions   `json:"assumptions"`
	Results     []YearlyResult `json:"results"`

	// ShowYears restricts presenters to these years; empty means first and last.
	ShowYears []int `json:"show_years,omitempty"`
}

// SelectedResults returns the results presenters should render, in run order.
func (r *ValuationReport) SelectedResults() []YearlyResult {
	if len(r.Results) == 0 {
		return nil
	}
	if len(r.ShowYears) == 0 {
		if len(r.Results) == 1 {
			return r.Results[:1]
		}
		return []YearlyResult{r.Results[0], r.Results[len(r.Results)-1]}
	}
	want := make(map[int]bool, len(r.ShowYears))
	for _, y := range r.ShowYears {
		want[y] = true
	}
	var out []YearlyResult
	for _, res := range r.Results {
		if want[res.Year] {
			out = append(out, res)
		}
	}
	return out
}
