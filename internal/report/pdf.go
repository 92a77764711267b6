package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/DOVA00/checking-links/internal/model"
)

// PDFWriter renders evaluations as a printable A4 table.
type PDFWriter struct {
	baseWriter

	// now stamps the report header.
	now func() time.Time
}

// PDFWriterOption configures a PDFWriter.
type PDFWriterOption func(*PDFWriter)

// WithPDFClock sets the clock used for the generation date.
func WithPDFClock(now func() time.Time) PDFWriterOption {
	return func(w *PDFWriter) {
		if now != nil {
			w.now = now
		}
	}
}

// NewPDFWriter creates a PDFWriter that outputs to the given writer.
func NewPDFWriter(output io.Writer, opts ...PDFWriterOption) *PDFWriter {
	w := &PDFWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RGB fill colours per level.
var levelFill = map[model.TrustLevel][3]int{
	model.TrustLevelVeryHigh:  {200, 240, 200},
	model.TrustLevelHigh:      {215, 232, 250},
	model.TrustLevelMedium:    {252, 243, 200},
	model.TrustLevelLow:       {253, 222, 200},
	model.TrustLevelDangerous: {248, 200, 200},
}

const (
	pdfMargin   = 15.0
	pdfRowH     = 7.0
	colURLWidth = 110.0
	colNumWidth = 20.0
	colLvlWidth = 50.0
)

// Write outputs the evaluation as a PDF document.
func (w *PDFWriter) Write(eval *model.TextEvaluation) (int, error) {
	summary := model.NewSummary(eval.Results)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(0, 6, fmt.Sprintf("checklinks - page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Link Trust Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	lines := []string{
		"Generated: " + w.now().Format("2006-01-02 15:04 MST"),
		fmt.Sprintf("URLs found: %d    URLs evaluated: %d", eval.ExtractedCount, eval.EvaluatedCount),
		fmt.Sprintf("Average score: %.1f    Flagged unsafe: %d", summary.AverageScore, summary.Unsafe),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	w.writeTableHeader(pdf)
	pdf.SetFont("Helvetica", "", 8)
	for _, r := range eval.Results {
		fill := levelFill[r.Level]
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.CellFormat(colURLWidth, pdfRowH, pdfSafe(truncateString(r.URL, 70)), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colNumWidth, pdfRowH, fmt.Sprintf("%.0f", r.Score), "1", 0, "C", true, 0, "")
		pdf.CellFormat(colLvlWidth, pdfRowH, levelLabel(r.Level), "1", 1, "L", true, 0, "")
	}
	if len(eval.Results) == 0 {
		pdf.CellFormat(colURLWidth+colNumWidth+colLvlWidth, pdfRowH, "No URLs evaluated", "1", 1, "C", false, 0, "")
	}

	cw := &countingWriter{w: w.output}
	if err := pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("failed to render pdf: %w", err)
	}
	return cw.n, nil
}

func (w *PDFWriter) writeTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(60, 60, 60)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(colURLWidth, pdfRowH, "URL", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colNumWidth, pdfRowH, "Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colLvlWidth, pdfRowH, "Level", "1", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// pdfSafe replaces characters the core fonts cannot render.
func pdfSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7e || r < 0x20 {
			return '?'
		}
		return r
	}, s)
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
