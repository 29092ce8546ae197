package output

import (
	"bytes"
	"encoding/json"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/rpgo/valuation-simulator/pkg/decimal"
	shop "github.com/shopspring/decimal"
)

// NetworkExportLabel is the breakdown category name used for the network in exports.
const NetworkExportLabel = "Robotaxi Network"

// notApplicable fills unit columns of revenue-kind segments.
const notApplicable = "-"

// JSONFormatter exports the shown years with the stable downstream field names.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.ValuationReport) ([]byte, error) {
	selected := report.SelectedResults()
	years := make([]orderedObject, 0, len(selected))
	for _, r := range selected {
		years = append(years, exportYear(r))
	}
	return json.MarshalIndent(years, "", "    ")
}

// RawJSONFormatter serializes the full report with every projected year.
type RawJSONFormatter struct{}

func (j RawJSONFormatter) Name() string { return "json-raw" }

func (j RawJSONFormatter) Extension() string { return "json" }

func (j RawJSONFormatter) Format(report *domain.ValuationReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

type field struct {
	Key   string
	Value any
}

// orderedObject marshals as a JSON object with keys in slice order.
type orderedObject []field

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func num(d shop.Decimal) json.Number {
	return json.Number(d.Round(6).String())
}

func millions(d shop.Decimal) json.Number {
	return num(decimal.NewMoneyFromDecimal(d).Millions())
}

func billions(d shop.Decimal) json.Number {
	return num(decimal.NewMoneyFromDecimal(d).Billions())
}

// categoryLabel maps the engine's network category to its export name.
func categoryLabel(category string) string {
	if category == domain.NetworkToggleKey {
		return NetworkExportLabel
	}
	return category
}

func exportYear(r domain.YearlyResult) orderedObject {
	products := make([]orderedObject, 0, len(r.Segments))
	for _, s := range r.Segments {
		products = append(products, exportSegment(s))
	}
	breakdown := make([]orderedObject, 0, len(r.RevenueBreakdown))
	for _, l := range r.RevenueBreakdown {
		breakdown = append(breakdown, orderedObject{
			{"Category", categoryLabel(l.Category)},
			{"Revenue ($M)", millions(l.Revenue)},
		})
	}
	marketCap := make([]orderedObject, 0, len(r.Valuations))
	for _, v := range r.Valuations {
		marketCap = append(marketCap, orderedObject{
			{"Scenario", v.Scenario},
			{"P/E Ratio", num(v.PERatio)},
			{"Net Income ($M)", millions(v.NetIncome)},
			{"Market Cap ($B)", billions(v.MarketCap)},
			{"Stock Price ($)", num(v.StockPrice)},
		})
	}
	return orderedObject{
		{"Year", r.Year},
		{"product_valuation", products},
		{"robotaxi_network", exportNetwork(r.Network)},
		{"revenue_breakdown", breakdown},
		{"total_revenue_million", millions(r.TotalRevenue)},
		{"market_cap", marketCap},
	}
}

func exportSegment(s domain.SegmentRow) orderedObject {
	var units, price any = notApplicable, notApplicable
	if s.UnitsSold != nil {
		units = num(*s.UnitsSold)
	}
	if s.UnitPrice != nil {
		price = num(*s.UnitPrice)
	}
	row := orderedObject{
		{"Product", s.Name},
		{"Units Sold", units},
		{"Sale Price ($)", price},
		{"Gross Margin (%)", num(s.GrossMarginPct)},
		{"Revenue ($M)", millions(s.NetRevenue)},
		{"Gross Profit ($M)", millions(s.GrossProfit)},
	}
	if s.OpExpenses != nil {
		row = append(row, field{"Operating Expenses ($M)", millions(*s.OpExpenses)})
	}
	return row
}

func exportNetwork(n domain.NetworkRow) orderedObject {
	if a := n.Advanced; a != nil {
		return orderedObject{
			{"Network Vehicles", num(n.Vehicles)},
			{"Miles per Car (Utilized)", num(a.UtilizedMilesPerVehicle)},
			{"Utilization Rate (%)", num(n.UtilizationRate.Mul(decimalHundred))},
			{"Rider Pays per Mile ($)", num(n.RiderRatePerMile)},
			{"Car Owner Cut per Mile ($)", num(n.OwnerCutPerMile)},
			{"Tesla Cut per Mile ($)", num(n.OperatorCutPerMile)},
			{"Operating Cost per Mile ($)", num(n.OperatingCostPerMile)},
			{"Gross Revenue ($M)", millions(a.GrossRevenue)},
			{"Car Owner Earnings ($M)", millions(a.OwnerEarnings)},
			{"Tesla Gross Earnings ($M)", millions(a.CompanyGross)},
			{"Operating Costs ($M)", millions(a.OperatingCosts)},
			{"Tesla Net Earnings ($M)", millions(a.CompanyNet)},
		}
	}
	miles := shop.Zero
	if n.Simple != nil {
		miles = n.Simple.MilesPerVehicle
	}
	return orderedObject{
		{"Network Vehicles", num(n.Vehicles)},
		{"Miles per Car", num(miles)},
		{"Rider Pays per Mile ($)", num(n.RiderRatePerMile)},
		{"Car Owner Cut per Mile ($)", num(n.OwnerCutPerMile)},
		{"Tesla Cut per Mile ($)", num(n.OperatorCutPerMile)},
		{"Tesla Earnings per Year ($M)", millions(n.CompanyEarnings)},
	}
}
