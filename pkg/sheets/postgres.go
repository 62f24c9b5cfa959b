package sheets

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresSchema creates the tables holding the grid.
const PostgresSchema = `CREATE TABLE IF NOT EXISTS sheet_worksheets (
    title TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS sheet_rows (
    worksheet TEXT NOT NULL REFERENCES sheet_worksheets(title) ON DELETE CASCADE,
    row_number INT NOT NULL,
    cells TEXT[] NOT NULL,
    PRIMARY KEY (worksheet, row_number)
);`

// PostgresBackend stores each worksheet as numbered rows of text arrays.
type PostgresBackend struct {
	db *sqlx.DB
	id string
}

type gridRow struct {
	RowNumber int            `db:"row_number"`
	Cells     pq.StringArray `db:"cells"`
}

// NewPostgresBackend wraps db. id is reported as the spreadsheet identifier.
func NewPostgresBackend(db *sqlx.DB, id string) *PostgresBackend {
	return &PostgresBackend{db: db, id: id}
}

// Migrate creates the backing tables when missing.
func (p *PostgresBackend) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("migrate sheet tables: %w", err)
	}
	return nil
}

func (p *PostgresBackend) SpreadsheetID() string { return p.id }

func (p *PostgresBackend) SpreadsheetTitle(ctx context.Context) (string, error) {
	var name string
	if err := p.db.GetContext(ctx, &name, `SELECT current_database()`); err != nil {
		return "", fmt.Errorf("spreadsheet title: %w", err)
	}
	return name, nil
}

func (p *PostgresBackend) SheetTitles(ctx context.Context) ([]string, error) {
	var titles []string
	if err := p.db.SelectContext(ctx, &titles, `SELECT title FROM sheet_worksheets ORDER BY created_at, title`); err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	return titles, nil
}

func (p *PostgresBackend) AddSheet(ctx context.Context, title string) error {
	if _, err := p.db.ExecContext(ctx, `INSERT INTO sheet_worksheets (title) VALUES ($1) ON CONFLICT (title) DO NOTHING`, title); err != nil {
		return fmt.Errorf("add worksheet %s: %w", title, err)
	}
	return nil
}

// GetRows returns the grid densely; gaps between stored rows come back as empty rows.
func (p *PostgresBackend) GetRows(ctx context.Context, title string) ([][]string, error) {
	var stored []gridRow
	if err := p.db.SelectContext(ctx, &stored, `SELECT row_number, cells FROM sheet_rows WHERE worksheet = $1 ORDER BY row_number`, title); err != nil {
		return nil, fmt.Errorf("get rows %s: %w", title, err)
	}
	if len(stored) == 0 {
		return [][]string{}, nil
	}

	grid := make([][]string, stored[len(stored)-1].RowNumber)
	for _, row := range stored {
		if row.RowNumber < 1 {
			continue
		}
		grid[row.RowNumber-1] = []string(row.Cells)
	}
	return grid, nil
}

func (p *PostgresBackend) AppendRow(ctx context.Context, title string, values []string) error {
	query := `INSERT INTO sheet_rows (worksheet, row_number, cells)
        SELECT $1, COALESCE(MAX(row_number), 0) + 1, $2 FROM sheet_rows WHERE worksheet = $1`
	if _, err := p.db.ExecContext(ctx, query, title, pq.StringArray(values)); err != nil {
		return fmt.Errorf("append row %s: %w", title, err)
	}
	return nil
}

func (p *PostgresBackend) UpdateRow(ctx context.Context, title string, rowNumber int, values []string) error {
	query := `INSERT INTO sheet_rows (worksheet, row_number, cells) VALUES ($1, $2, $3)
        ON CONFLICT (worksheet, row_number) DO UPDATE SET cells = EXCLUDED.cells`
	if _, err := p.db.ExecContext(ctx, query, title, rowNumber, pq.StringArray(values)); err != nil {
		return fmt.Errorf("update row %d of %s: %w", rowNumber, title, err)
	}
	return nil
}

func (p *PostgresBackend) ClearRows(ctx context.Context, title string, fromRow int) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM sheet_rows WHERE worksheet = $1 AND row_number >= $2`, title, fromRow); err != nil {
		return fmt.Errorf("clear rows %s: %w", title, err)
	}
	return nil
}
