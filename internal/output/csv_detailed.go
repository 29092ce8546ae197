package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/valuation-simulator/internal/domain"
)

// CSVDetailedExporter provides one row per projected year and valuation scenario,
// followed by one row per year and segment.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *domain.ValuationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Scenario", "PERatio", "TotalRevenue", "NetIncome", "MarketCap", "StockPrice"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, yr := range report.Results {
		for _, v := range yr.Valuations {
			row := []string{
				intToString(yr.Year),
				v.Scenario,
				v.PERatio.String(),
				yr.TotalRevenue.StringFixed(2),
				v.NetIncome.StringFixed(2),
				v.MarketCap.StringFixed(2),
				v.StockPrice.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	buf.WriteString("\n")
	header = []string{"Year", "Segment", "Kind", "Revenue", "NetRevenue", "GrossProfit", "OpExpenses", "Advanced", "Overridden"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, yr := range report.Results {
		for _, s := range yr.Segments {
			op := ""
			if s.OpExpenses != nil {
				op = s.OpExpenses.StringFixed(2)
			}
			row := []string{
				intToString(yr.Year),
				s.Name,
				string(s.Kind),
				s.Revenue.StringFixed(2),
				s.NetRevenue.StringFixed(2),
				s.GrossProfit.StringFixed(2),
				op,
				boolToString(s.Advanced),
				boolToString(s.Overridden),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
