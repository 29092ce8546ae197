package output

import (
	"github.com/rpgo/valuation-simulator/internal/domain"
)

// table is a rendered-agnostic grid shared by the text, markdown and PDF presenters.
type table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// yearTables builds the per-year presentation tables in display order:
// segments, network economics, revenue breakdown, valuation scenarios.
func yearTables(r domain.YearlyResult) []table {
	return []table{segmentTable(r), networkTable(r.Network), breakdownTable(r), valuationTable(r)}
}

func segmentTable(r domain.YearlyResult) table {
	advanced := false
	for _, s := range r.Segments {
		if s.OpExpenses != nil {
			advanced = true
			break
		}
	}
	t := table{
		Title:  "Product Valuation",
		Header: []string{"Product", "Units Sold", "Sale Price", "Gross Margin", "Revenue", "Gross Profit"},
	}
	if advanced {
		t.Header = append(t.Header, "Operating Expenses")
	}
	for _, s := range r.Segments {
		units, price := notApplicable, notApplicable
		if s.UnitsSold != nil {
			units = FormatCount(*s.UnitsSold)
		}
		if s.UnitPrice != nil {
			price = HumanDollars(*s.UnitPrice)
		}
		name := s.Name
		if s.Overridden {
			name += " *"
		}
		row := []string{name, units, price, FormatPercentage(s.GrossMarginPct), HumanDollars(s.NetRevenue), HumanDollars(s.GrossProfit)}
		if advanced {
			op := notApplicable
			if s.OpExpenses != nil {
				op = HumanDollars(*s.OpExpenses)
			}
			row = append(row, op)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func networkTable(n domain.NetworkRow) table {
	t := table{Title: "Robotaxi Network (" + string(n.Path) + ")", Header: []string{"Metric", "Value"}}
	add := func(label, value string) { t.Rows = append(t.Rows, []string{label, value}) }

	add("Network Vehicles", FormatCount(n.Vehicles))
	if a := n.Advanced; a != nil {
		add("Miles per Car (Utilized)", FormatCount(a.UtilizedMilesPerVehicle))
		add("Utilization Rate", FormatRate(n.UtilizationRate))
		add("Rider Pays per Mile", FormatCurrency(n.RiderRatePerMile))
		add("Car Owner Cut per Mile", FormatCurrency(n.OwnerCutPerMile))
		add("Company Cut per Mile", FormatCurrency(n.OperatorCutPerMile))
		add("Operating Cost per Mile", FormatCurrency(n.OperatingCostPerMile))
		add("Gross Revenue", HumanDollars(a.GrossRevenue))
		add("Car Owner Earnings", HumanDollars(a.OwnerEarnings))
		add("Company Gross Earnings", HumanDollars(a.CompanyGross))
		add("Operating Costs", HumanDollars(a.OperatingCosts))
		add("Company Net Earnings", HumanDollars(a.CompanyNet))
		return t
	}
	if s := n.Simple; s != nil {
		add("Miles per Car", FormatCount(s.MilesPerVehicle))
	}
	add("Rider Pays per Mile", FormatCurrency(n.RiderRatePerMile))
	add("Car Owner Cut per Mile", FormatCurrency(n.OwnerCutPerMile))
	add("Company Cut per Mile", FormatCurrency(n.OperatorCutPerMile))
	add("Company Earnings per Year", HumanDollars(n.CompanyEarnings))
	return t
}

func breakdownTable(r domain.YearlyResult) table {
	t := table{Title: "Revenue Breakdown", Header: []string{"Category", "Revenue"}}
	for _, l := range r.RevenueBreakdown {
		t.Rows = append(t.Rows, []string{categoryLabel(l.Category), HumanDollars(l.Revenue)})
	}
	t.Rows = append(t.Rows, []string{"Total", HumanDollars(r.TotalRevenue)})
	return t
}

func valuationTable(r domain.YearlyResult) table {
	t := table{Title: "Market Cap", Header: []string{"Scenario", "P/E Ratio", "Net Income", "Market Cap", "Stock Price"}}
	for _, v := range r.Valuations {
		t.Rows = append(t.Rows, []string{v.Scenario, v.PERatio.StringFixed(2), HumanDollars(v.NetIncome), HumanDollars(v.MarketCap), FormatCurrency(v.StockPrice)})
	}
	return t
}
