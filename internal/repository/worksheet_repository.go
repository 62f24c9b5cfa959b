package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

// WorksheetRepository binds one worksheet of the spreadsheet to the sheet client.
type WorksheetRepository struct {
	client    *sheets.Client
	worksheet string
}

// NewWorksheetRepository constructs a repository for worksheet.
func NewWorksheetRepository(client *sheets.Client, worksheet string) *WorksheetRepository {
	return &WorksheetRepository{client: client, worksheet: worksheet}
}

// Worksheet returns the bound worksheet title.
func (r *WorksheetRepository) Worksheet() string { return r.worksheet }

// Headers returns the column layout of the worksheet.
func (r *WorksheetRepository) Headers() []string {
	headers, _ := r.client.Schema().Headers(r.worksheet)
	return headers
}

// All returns every row including soft-deleted ones.
func (r *WorksheetRepository) All(ctx context.Context) ([]sheets.Row, error) {
	rows, err := r.client.GetAllData(ctx, r.worksheet)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.worksheet, err)
	}
	return rows, nil
}

// Active returns rows that are not soft-deleted.
func (r *WorksheetRepository) Active(ctx context.Context) ([]sheets.Row, error) {
	rows, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return sheets.WithoutDeleted(rows), nil
}

// FindByID returns the row with id or nil when absent.
func (r *WorksheetRepository) FindByID(ctx context.Context, id string) (sheets.Row, error) {
	row, err := r.client.GetByID(ctx, r.worksheet, id)
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", r.worksheet, id, err)
	}
	return row, nil
}

// Insert appends a row and returns the stored version.
func (r *WorksheetRepository) Insert(ctx context.Context, row sheets.Row) (sheets.Row, error) {
	return r.client.AddRow(ctx, r.worksheet, row)
}

// Update merges patch into the row with id.
func (r *WorksheetRepository) Update(ctx context.Context, id string, patch sheets.Row) (sheets.Row, error) {
	return r.client.UpdateByID(ctx, r.worksheet, id, patch)
}

// SoftDelete marks the row with id as deleted.
func (r *WorksheetRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.client.DeleteByID(ctx, r.worksheet, id)
	return err
}

// Page returns one page of non-deleted rows matching filters.
func (r *WorksheetRepository) Page(ctx context.Context, page, limit int, filters map[string]string) ([]sheets.Row, sheets.Pagination, error) {
	return r.client.GetPaginated(ctx, r.worksheet, page, limit, filters)
}

// Stats returns total, active and deleted counts.
func (r *WorksheetRepository) Stats(ctx context.Context) (sheets.Stats, error) {
	return r.client.GetStats(ctx, r.worksheet)
}
