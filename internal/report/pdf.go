package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// Column widths in millimetres on an A4 portrait page (190mm printable).
var pdfColumns = []float64{32, 70, 20, 20, 24, 24}

// WritePDF renders the report directly as an A4 PDF document.
func WritePDF(w io.Writer, m Month, l Labels) error {
	if err := buildPDF(m, l).Output(w); err != nil {
		return fmt.Errorf("writing PDF report: %w", err)
	}
	return nil
}

func buildPDF(m Month, l Labels) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(l.Heading(m.Employee)+" – "+l.MonthName(m.Year, m.Month)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(l.Heading(m.Employee)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(0, 8, tr(l.MonthName(m.Year, m.Month)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{l.Date, l.Project, l.Begin, l.End, l.Pause, l.Total}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range headers {
		align := "L"
		if i == len(headers)-1 {
			align = "R"
		}
		pdf.CellFormat(pdfColumns[i], 8, tr(h), "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(m.Entries) == 0 {
		pdf.CellFormat(sum(pdfColumns), 8, tr(l.Empty), "B", 1, "C", false, 0, "")
	}
	for _, e := range m.Entries {
		cells := []string{
			l.FormatDate(m.Date(e)),
			e.Project,
			e.Begin,
			e.End,
			strconv.Itoa(e.Pause),
			timecalc.FormatDuration(e.Total),
		}
		border := "B"
		if e.Notes != "" {
			border = ""
		}
		for i, c := range cells {
			align := "L"
			if i == len(cells)-1 {
				align = "R"
			}
			pdf.CellFormat(pdfColumns[i], 7, tr(fitText(pdf, c, pdfColumns[i]-2)), border, 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		if e.Notes != "" {
			// Notes go on a sub-line under the project column.
			notesWidth := sum(pdfColumns[1:])
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(pdfColumns[0], 5, "", "B", 0, "L", false, 0, "")
			pdf.CellFormat(notesWidth, 5, tr(fitText(pdf, firstLine(e.Notes), notesWidth-2)), "B", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
		}
	}

	pdf.SetFont("Helvetica", "B", 10)
	labelWidth := sum(pdfColumns[:len(pdfColumns)-1])
	pdf.CellFormat(labelWidth, 8, tr(l.MonthTotal), "T", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColumns[len(pdfColumns)-1], 8, timecalc.FormatDuration(m.TotalMinutes), "T", 1, "R", false, 0, "")
	return pdf
}

// fitText shortens s with an ellipsis until it fits into width at the current font.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}
