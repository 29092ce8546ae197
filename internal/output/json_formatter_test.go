package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rpgo/valuation-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func decodeExport(t *testing.T, out []byte) []map[string]json.RawMessage {
	t.Helper()
	var years []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &years))
	return years
}

func TestJSONExportShape(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	var rawYears []json.RawMessage
	require.NoError(t, json.Unmarshal(out, &rawYears))
	require.Len(t, rawYears, 2, "first and last year by default")
	assert.Equal(t, []string{"Year", "product_valuation", "robotaxi_network", "revenue_breakdown", "total_revenue_million", "market_cap"}, objectKeys(t, rawYears[0]))

	years := decodeExport(t, out)
	assert.JSONEq(t, `2025`, string(years[0]["Year"]))
	assert.JSONEq(t, `2035`, string(years[1]["Year"]))
	assert.JSONEq(t, `106316`, string(years[0]["total_revenue_million"]))

	var products []json.RawMessage
	require.NoError(t, json.Unmarshal(years[0]["product_valuation"], &products))
	require.Len(t, products, 5)
	assert.Equal(t, []string{"Product", "Units Sold", "Sale Price ($)", "Gross Margin (%)", "Revenue ($M)", "Gross Profit ($M)"}, objectKeys(t, products[0]))
	assert.JSONEq(t, `{"Product":"Cars","Units Sold":1800000,"Sale Price ($)":45000,"Gross Margin (%)":18,"Revenue ($M)":81000,"Gross Profit ($M)":14580}`, string(products[0]))
	assert.JSONEq(t, `{"Product":"Energy","Units Sold":"-","Sale Price ($)":"-","Gross Margin (%)":30,"Revenue ($M)":15000,"Gross Profit ($M)":4500}`, string(products[3]))

	assert.Equal(t, []string{
		"Network Vehicles", "Miles per Car (Utilized)", "Utilization Rate (%)", "Rider Pays per Mile ($)",
		"Car Owner Cut per Mile ($)", "Tesla Cut per Mile ($)", "Operating Cost per Mile ($)", "Gross Revenue ($M)",
		"Car Owner Earnings ($M)", "Tesla Gross Earnings ($M)", "Operating Costs ($M)", "Tesla Net Earnings ($M)",
	}, objectKeys(t, years[0]["robotaxi_network"]))
	var network map[string]json.Number
	require.NoError(t, json.Unmarshal(years[0]["robotaxi_network"], &network))
	assert.Equal(t, json.Number("8000"), network["Network Vehicles"])
	assert.Equal(t, json.Number("25000"), network["Miles per Car (Utilized)"])
	assert.Equal(t, json.Number("50"), network["Utilization Rate (%)"])
	assert.Equal(t, json.Number("84"), network["Operating Costs ($M)"])
	assert.Equal(t, json.Number("-4"), network["Tesla Net Earnings ($M)"])

	var breakdown []map[string]any
	require.NoError(t, json.Unmarshal(years[0]["revenue_breakdown"], &breakdown))
	require.Len(t, breakdown, 6)
	assert.Equal(t, "Cars", breakdown[0]["Category"])
	assert.Equal(t, NetworkExportLabel, breakdown[5]["Category"])
	assert.Equal(t, -4.0, breakdown[5]["Revenue ($M)"])

	var marketCap []json.RawMessage
	require.NoError(t, json.Unmarshal(years[0]["market_cap"], &marketCap))
	require.Len(t, marketCap, 4)
	assert.Equal(t, []string{"Scenario", "P/E Ratio", "Net Income ($M)", "Market Cap ($B)", "Stock Price ($)"}, objectKeys(t, marketCap[1]))
	var current map[string]any
	require.NoError(t, json.Unmarshal(marketCap[1], &current))
	assert.Equal(t, "Current", current["Scenario"])
	assert.Equal(t, 191.6, current["P/E Ratio"])
	assert.Equal(t, 8505.28, current["Net Income ($M)"])
	assert.Equal(t, 1629.611648, current["Market Cap ($B)"])
	assert.InDelta(t, 506.09, current["Stock Price ($)"], 0.005)
}

func TestJSONExportOptionalOperatingExpenses(t *testing.T) {
	op := decimal.NewFromInt(2_000_000)
	units := decimal.NewFromInt(10)
	price := decimal.NewFromInt(1_000_000)
	row := exportSegment(domain.SegmentRow{
		Name:           "Cars",
		UnitsSold:      &units,
		UnitPrice:      &price,
		GrossMarginPct: decimal.NewFromInt(20),
		Revenue:        decimal.NewFromInt(10_000_000),
		NetRevenue:     decimal.NewFromInt(8_000_000),
		GrossProfit:    decimal.NewFromInt(1_600_000),
		OpExpenses:     &op,
		Advanced:       true,
	})
	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, "Operating Expenses ($M)", row[len(row)-1].Key)
	assert.JSONEq(t, `{"Product":"Cars","Units Sold":10,"Sale Price ($)":1000000,"Gross Margin (%)":20,"Revenue ($M)":8,"Gross Profit ($M)":1.6,"Operating Expenses ($M)":2}`, string(b))
}

func TestJSONExportSimpleNetwork(t *testing.T) {
	n := domain.NetworkRow{
		Path:               domain.PathGross,
		Vehicles:           decimal.NewFromInt(16000),
		RiderRatePerMile:   decimal.NewFromInt(1),
		OwnerCutPerMile:    decimal.NewFromFloat(0.6),
		OperatorCutPerMile: decimal.NewFromFloat(0.4),
		CompanyEarnings:    decimal.NewFromInt(320_000_000),
		Simple: &domain.SimpleNetworkEconomics{
			MilesPerVehicle: decimal.NewFromInt(50000),
			TotalMiles:      decimal.NewFromInt(800_000_000),
			CompanyEarnings: decimal.NewFromInt(320_000_000),
		},
	}
	b, err := json.Marshal(exportNetwork(n))
	require.NoError(t, err)
	assert.Equal(t, []string{"Network Vehicles", "Miles per Car", "Rider Pays per Mile ($)", "Car Owner Cut per Mile ($)", "Tesla Cut per Mile ($)", "Tesla Earnings per Year ($M)"}, objectKeys(t, b))
	assert.JSONEq(t, `{"Network Vehicles":16000,"Miles per Car":50000,"Rider Pays per Mile ($)":1,"Car Owner Cut per Mile ($)":0.6,"Tesla Cut per Mile ($)":0.4,"Tesla Earnings per Year ($M)":320}`, string(b))
}

func TestRawJSONFormatterIncludesAllYears(t *testing.T) {
	out, err := RawJSONFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	var report struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Year int `json:"year"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, "run-fixture", report.RunID)
	assert.Len(t, report.Results, 11)
}
