package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/valuation-simulator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per projected year).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ValuationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "TotalRevenue", "NetIncome", "SharesOutstanding", "NetworkEarnings", "OverrideApplied"}
	if len(report.Results) > 0 {
		for _, v := range report.Results[0].Valuations {
			header = append(header, "StockPrice_"+v.Scenario)
		}
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, yr := range report.Results {
		row := []string{
			intToString(yr.Year),
			yr.TotalRevenue.StringFixed(2),
			yr.NetIncome.StringFixed(2),
			yr.SharesOutstanding.StringFixed(0),
			yr.Network.CompanyEarnings.StringFixed(2),
			boolToString(yr.OverrideApplied),
		}
		for _, v := range yr.Valuations {
			row = append(row, v.StockPrice.StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
