package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/rpgo/valuation-simulator/internal/domain"
)

// PDFFormatter renders the shown years as tables in an A4 document.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

const pdfContentWidth = 190.0

func (p PDFFormatter) Format(report *domain.ValuationReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle("Valuation Report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pdfContentWidth, 10, "Valuation Report", "", 1, "L", false, 0, "")
	if report.RunID != "" {
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(pdfContentWidth, 5, "Run "+report.RunID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	if lines := GenerateAssumptions(report.Assumptions); len(lines) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(pdfContentWidth, 7, "Key Assumptions", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, l := range lines {
			pdf.MultiCell(pdfContentWidth, 5, "- "+l, "", "L", false)
		}
		pdf.Ln(3)
	}

	for _, yr := range report.SelectedResults() {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(pdfContentWidth, 9, fmt.Sprintf("Year %d", yr.Year), "B", 1, "L", false, 0, "")
		pdf.Ln(2)
		for _, t := range yearTables(yr) {
			writePDFTable(pdf, t)
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(pdfContentWidth, 7, "Total Company Revenue: "+HumanDollars(yr.TotalRevenue), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}

	if lines := AnalyzeReport(report).Lines(); len(lines) > 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(pdfContentWidth, 7, "Summary", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, l := range lines {
			pdf.MultiCell(pdfContentWidth, 5, l, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

func writePDFTable(pdf *fpdf.Fpdf, t table) {
	if len(t.Header) == 0 {
		return
	}
	colWidth := pdfContentWidth / float64(len(t.Header))

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pdfContentWidth, 6, t.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range t.Header {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(colWidth, 6, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range t.Rows {
		for i, c := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidth, 5, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}
