package sheets

import (
	"context"
	"time"
)

// Backend is the remote grid the client talks to. Row numbers are 1-based
// and row 1 holds the headers.
type Backend interface {
	SpreadsheetID() string
	SpreadsheetTitle(ctx context.Context) (string, error)
	SheetTitles(ctx context.Context) ([]string, error)
	AddSheet(ctx context.Context, title string) error
	GetRows(ctx context.Context, title string) ([][]string, error)
	AppendRow(ctx context.Context, title string, values []string) error
	UpdateRow(ctx context.Context, title string, rowNumber int, values []string) error
	ClearRows(ctx context.Context, title string, fromRow int) error
}

// Observer receives the outcome of every backend call.
type Observer interface {
	ObserveSheetCall(operation, worksheet string, duration time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(operation, worksheet string, duration time.Duration, err error)

// ObserveSheetCall implements Observer.
func (f ObserverFunc) ObserveSheetCall(operation, worksheet string, duration time.Duration, err error) {
	f(operation, worksheet, duration, err)
}
