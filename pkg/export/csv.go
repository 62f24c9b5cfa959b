package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

// CSV renders tables as comma separated values with a header line.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }

func (CSV) Extension() string { return FormatCSV }

func (CSV) Render(table Table) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, errors.New("csv export needs headers")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(table.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(table.cells(row)); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", row.ID(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
