package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0 // A4 landscape minus margins
	pdfMaxChars  = 28
)

// PDF renders tables on landscape A4 pages. Long cells are truncated.
type PDF struct{}

func (PDF) ContentType() string { return "application/pdf" }

func (PDF) Extension() string { return FormatPDF }

func (PDF) Render(table Table) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, errors.New("pdf export needs headers")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	width := pdfPageWidth / float64(len(table.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range table.Headers {
			pdf.CellFormat(width, 7, truncate(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
	}
	pdf.SetHeaderFunc(func() {
		if table.Title != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, table.Title, "", 1, "L", false, 0, "")
		}
		header()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	for _, row := range table.Rows {
		for _, cell := range table.cells(row) {
			pdf.CellFormat(width, 6, truncate(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= pdfMaxChars {
		return s
	}
	return string(r[:pdfMaxChars-3]) + "..."
}
