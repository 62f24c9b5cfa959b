package sheets

import (
	"errors"
	"fmt"
)

// Well known headers shared by every worksheet.
const (
	HeaderID        = "ID"
	HeaderStatus    = "Status"
	HeaderCreatedAt = "Created At"
	HeaderUpdatedAt = "Updated At"
)

// Status values with meaning to the client itself.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// ErrUnknownWorksheet is returned when writing to a worksheet without a registered schema.
var ErrUnknownWorksheet = errors.New("sheets: unknown worksheet")

// ErrRowNotFound matches any RowNotFoundError via errors.Is.
var ErrRowNotFound = errors.New("sheets: row not found")

// RowNotFoundError reports an update against an ID that is not present.
type RowNotFoundError struct {
	ID string
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("Record with ID %s not found", e.ID)
}

// Is lets callers test with errors.Is(err, ErrRowNotFound).
func (e *RowNotFoundError) Is(target error) bool {
	return target == ErrRowNotFound
}

// Row is one record keyed by header. Missing cells are empty strings.
type Row map[string]string

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the row identifier.
func (r Row) ID() string { return r[HeaderID] }

// Deleted reports whether the row carries the soft-delete marker.
func (r Row) Deleted() bool { return r[HeaderStatus] == StatusDeleted }

// project lays the row out in header order.
func (r Row) project(headers []string) []string {
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = r[h]
	}
	return values
}

// Pagination describes one page of a listing.
type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
}

// Stats summarises a worksheet including soft-deleted rows.
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Deleted int `json:"deleted"`
}

// ConnectionStatus is the outcome of TestConnection.
type ConnectionStatus struct {
	Connected        bool   `json:"connected"`
	SpreadsheetTitle string `json:"spreadsheetTitle,omitempty"`
	SpreadsheetID    string `json:"spreadsheetId,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Default paging values applied when callers pass non-positive numbers.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Paginate slices rows for the requested page. Out of range pages yield an empty slice.
func Paginate(rows []Row, page, limit int) ([]Row, Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	total := len(rows)
	pages := 0
	if total > 0 {
		pages = (total-1)/limit + 1
	}
	pagination := Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		Limit:   limit,
	}

	// page is client input; compare before multiplying so it cannot overflow.
	if page > pages {
		return []Row{}, pagination
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	return rows[start:end], pagination
}
