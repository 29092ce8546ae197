package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/valuation-simulator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.ValuationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "VALUATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, yr := range report.SelectedResults() {
		fmt.Fprintf(&buf, "%d: Revenue=%s NetIncome=%s Network=%s\n",
			yr.Year,
			HumanDollars(yr.TotalRevenue),
			HumanDollars(yr.NetIncome),
			HumanDollars(yr.Network.CompanyEarnings),
		)
		for _, v := range yr.Valuations {
			fmt.Fprintf(&buf, "  %s (P/E %s): MarketCap=%s Price=%s\n", v.Scenario, v.PERatio.String(), HumanDollars(v.MarketCap), FormatCurrency(v.StockPrice))
		}
	}
	h := AnalyzeReport(report)
	if h.TopScenario != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Top scenario %d: %s (%s)\n", h.FinalYear, h.TopScenario, FormatCurrency(h.TopStockPrice))
	}
	return buf.Bytes(), nil
}
