package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SavePDF renders the given conversion report into a PDF document.
func SavePDF(rep ConversionReport, lang Language, out string) error {
	t := NewTranslator(lang)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(t.T("report.title"), false)
	pdf.SetAuthor("edictl", false)
	pdf.SetCreator("edictl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, t.T("report.title"))
	addSummarySection(pdf, t, rep)
	addResultTableSection(pdf, t, rep.Results)
	addFailureSection(pdf, t, rep.Results)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSummarySection(pdf *gofpdf.Fpdf, t Translator, rep ConversionReport) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, t.T("section.summary"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: t.T("summary.inputs"), value: strconv.Itoa(rep.Summary.Inputs)},
		{label: t.T("summary.transactions"), value: strconv.Itoa(rep.Summary.Transactions)},
		{label: t.T("summary.failures"), value: strconv.Itoa(rep.Summary.Failures)},
		{label: t.T("summary.overall"), value: passLabel(t, rep.Summary.Pass)},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addResultTableSection(pdf *gofpdf.Fpdf, t Translator, rows []InputResult) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, t.T("section.results"))
	pdf.Ln(9)

	headers := []string{
		t.T("column.input"),
		t.T("column.version"),
		t.T("column.size"),
		t.T("column.transactions"),
		t.T("column.status"),
	}
	widths := []float64{72, 24, 26, 30, 28}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	lineHeight := 5.0
	for _, row := range rows {
		values := []string{
			emptyFallback(row.Input, "-"),
			emptyFallback(row.Version, "-"),
			strconv.FormatInt(row.Size, 10),
			strconv.Itoa(row.Transactions),
			passLabel(t, row.Error == ""),
		}
		renderTableRow(pdf, widths, values, lineHeight)
	}
	pdf.Ln(4)
}

func addFailureSection(pdf *gofpdf.Fpdf, t Translator, rows []InputResult) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, t.T("section.failures"))
	pdf.Ln(9)

	failures := 0
	for i, r := range rows {
		if r.Error == "" {
			continue
		}
		failures++
		pdf.SetFont("Helvetica", "B", 10)
		header := fmt.Sprintf("%d. %s", i+1, r.Input)
		pdf.MultiCell(0, 5, header, "", "L", false)

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, r.Error, "", "L", false)
		if r.Malformed > 0 {
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 4, t.Format("failure.malformed", r.Malformed), "", "L", false)
		}
		pdf.Ln(2)
	}
	if failures == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, t.T("failure.none"), "", "L", false)
	}
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		cellText := strings.Join(lines, "\n")
		pdf.MultiCell(widths[i], lineHeight, cellText, "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}

func passLabel(t Translator, pass bool) string {
	if pass {
		return t.T("status.pass")
	}
	return t.T("status.fail")
}

func emptyFallback(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
