package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rpgo/valuation-simulator/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed per-year tables for the shown years.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(report *domain.ValuationReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "COMPANY VALUATION PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	if report.RunID != "" {
		fmt.Fprintf(&buf, "Run: %s\n", report.RunID)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report.Assumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for _, yr := range report.SelectedResults() {
		fmt.Fprintf(&buf, "YEAR %d\n", yr.Year)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		for _, t := range yearTables(yr) {
			if err := writeTextTable(&buf, t); err != nil {
				return nil, err
			}
		}
		fmt.Fprintf(&buf, "Total Company Revenue: %s\n", HumanDollars(yr.TotalRevenue))
		fmt.Fprintln(&buf)
	}

	if lines := AnalyzeReport(report).Lines(); len(lines) > 0 {
		fmt.Fprintln(&buf, "SUMMARY")
		fmt.Fprintln(&buf, strings.Repeat("-", 50))
		for _, l := range lines {
			fmt.Fprintln(&buf, l)
		}
	}
	return buf.Bytes(), nil
}

func writeTextTable(w io.Writer, t table) error {
	fmt.Fprintln(w, t.Title+":")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(tw, strings.Join(t.Header, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
