package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/valuation-simulator/internal/domain"
)

// MarkdownFormatter renders the shown years as GitHub-flavored markdown tables.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Extension() string { return "md" }

func (m MarkdownFormatter) Format(report *domain.ValuationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# Valuation Report")
	fmt.Fprintln(&buf)
	if report.RunID != "" {
		fmt.Fprintf(&buf, "Run `%s`", report.RunID)
		if !report.GeneratedAt.IsZero() {
			fmt.Fprintf(&buf, " generated %s", report.GeneratedAt.UTC().Format(time.RFC3339))
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf)
	}

	if lines := GenerateAssumptions(report.Assumptions); len(lines) > 0 {
		fmt.Fprintln(&buf, "## Key Assumptions")
		fmt.Fprintln(&buf)
		for _, l := range lines {
			fmt.Fprintf(&buf, "- %s\n", l)
		}
		fmt.Fprintln(&buf)
	}

	for _, yr := range report.SelectedResults() {
		fmt.Fprintf(&buf, "## %d\n\n", yr.Year)
		for _, t := range yearTables(yr) {
			writeMarkdownTable(&buf, t)
		}
		fmt.Fprintf(&buf, "**Total Company Revenue:** %s\n\n", HumanDollars(yr.TotalRevenue))
	}

	if lines := AnalyzeReport(report).Lines(); len(lines) > 0 {
		fmt.Fprintln(&buf, "## Summary")
		fmt.Fprintln(&buf)
		for _, l := range lines {
			fmt.Fprintf(&buf, "- %s\n", l)
		}
	}
	return buf.Bytes(), nil
}

func writeMarkdownTable(buf *bytes.Buffer, t table) {
	fmt.Fprintf(buf, "### %s\n\n", t.Title)
	fmt.Fprintf(buf, "| %s |\n", strings.Join(t.Header, " | "))
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(buf, "| %s |\n", strings.Join(sep, " | "))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		fmt.Fprintf(buf, "| %s |\n", strings.Join(cells, " | "))
	}
	fmt.Fprintln(buf)
}
