package export

import (
	"fmt"
	"strings"

	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

// Supported export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Table is a worksheet snapshot ready for rendering.
type Table struct {
	Title   string
	Headers []string
	Rows    []sheets.Row
}

// Renderer turns a table into a downloadable document.
type Renderer interface {
	Render(table Table) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat returns the renderer for format, defaulting to CSV when empty.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return CSV{}, nil
	case FormatPDF:
		return PDF{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func (t Table) cells(row sheets.Row) []string {
	out := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		out[i] = row[h]
	}
	return out
}
