package models

import "github.com/noah-isme/rbc-sheets-api/pkg/sheets"

// SheetStats is embedded by every entity summary.
type SheetStats = sheets.Stats

// BulkImportError describes one rejected row of a bulk import. Row is 1-based.
type BulkImportError struct {
	Row   int        `json:"row"`
	Data  sheets.Row `json:"data"`
	Error string     `json:"error"`
}

// BulkImportResult reports the outcome of importing many rows.
type BulkImportResult[T any] struct {
	Imported     int               `json:"imported"`
	Errors       int               `json:"errors"`
	Results      []T               `json:"results"`
	ErrorDetails []BulkImportError `json:"errorDetails"`
}
