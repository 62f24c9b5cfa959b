package sheets

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Client performs entity agnostic row operations over the worksheets of one spreadsheet.
type Client struct {
	backend  Backend
	schema   *Schema
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
	newID    func(time.Time) string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the logger used for backend failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver reports backend call timings.
func WithObserver(observer Observer) Option {
	return func(c *Client) { c.observer = observer }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides ID generation for inserted rows.
func WithIDGenerator(fn func(time.Time) string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// NewClient constructs a Client over backend using schema for column layout.
func NewClient(backend Backend, schema *Schema, opts ...Option) *Client {
	if schema == nil {
		schema = NewSchema()
	}
	c := &Client{
		backend: backend,
		schema:  schema,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   GenerateID,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateID returns the unix milliseconds of now followed by five random base36 characters.
func GenerateID(now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	for i := 0; i < 5; i++ {
		b.WriteByte(base36[rand.Intn(len(base36))])
	}
	return b.String()
}

// Schema exposes the worksheet layouts known to the client.
func (c *Client) Schema() *Schema { return c.schema }

// SpreadsheetID returns the identifier of the backing spreadsheet.
func (c *Client) SpreadsheetID() string { return c.backend.SpreadsheetID() }

// GetAllData returns every record of a worksheet, soft-deleted rows included.
func (c *Client) GetAllData(ctx context.Context, worksheet string) ([]Row, error) {
	_, rows, err := c.read(ctx, worksheet)
	return rows, err
}

// GetByID returns the first row whose ID matches, or nil.
func (c *Client) GetByID(ctx context.Context, worksheet, id string) (Row, error) {
	rows, err := c.GetAllData(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.ID() == id {
			return row, nil
		}
	}
	return nil, nil
}

// AddRow appends row, generating an ID when absent and stamping timestamps.
func (c *Client) AddRow(ctx context.Context, worksheet string, row Row) (Row, error) {
	headers, ok := c.schema.Headers(worksheet)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorksheet, worksheet)
	}

	unlock := c.lock(worksheet)
	defer unlock()

	stored := c.prepareInsert(row, headers)
	if err := c.call(ctx, "append_row", worksheet, func() error {
		return c.backend.AppendRow(ctx, worksheet, stored.project(headers))
	}); err != nil {
		return nil, fmt.Errorf("add row to %s: %w", worksheet, err)
	}
	return stored, nil
}

// BatchAdd appends rows one by one. A failure stops the batch and leaves earlier rows in place.
func (c *Client) BatchAdd(ctx context.Context, worksheet string, rows []Row) ([]Row, error) {
	stored := make([]Row, 0, len(rows))
	for _, row := range rows {
		added, err := c.AddRow(ctx, worksheet, row)
		if err != nil {
			return stored, err
		}
		stored = append(stored, added)
	}
	return stored, nil
}

// UpdateByID merges patch over the stored row and rewrites it in place.
func (c *Client) UpdateByID(ctx context.Context, worksheet, id string, patch Row) (Row, error) {
	if _, ok := c.schema.Headers(worksheet); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorksheet, worksheet)
	}

	unlock := c.lock(worksheet)
	defer unlock()

	headers, rows, err := c.read(ctx, worksheet)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, row := range rows {
		if row.ID() == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, &RowNotFoundError{ID: id}
	}

	merged := rows[index].Clone()
	for k, v := range patch {
		merged[k] = v
	}
	merged[HeaderUpdatedAt] = c.timestamp()

	if schemaHeaders, _ := c.schema.Headers(worksheet); len(headers) == 0 {
		headers = schemaHeaders
	}

	rowNumber := index + 2
	if err := c.call(ctx, "update_row", worksheet, func() error {
		return c.backend.UpdateRow(ctx, worksheet, rowNumber, merged.project(headers))
	}); err != nil {
		return nil, fmt.Errorf("update row %s in %s: %w", id, worksheet, err)
	}
	return merged, nil
}

// DeleteByID soft-deletes a row by setting its status to deleted.
func (c *Client) DeleteByID(ctx context.Context, worksheet, id string) (Row, error) {
	return c.UpdateByID(ctx, worksheet, id, Row{HeaderStatus: StatusDeleted})
}

// Search returns rows matching every non-empty filter as a case-insensitive substring.
func (c *Client) Search(ctx context.Context, worksheet string, filters map[string]string) ([]Row, error) {
	rows, err := c.GetAllData(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	return Filter(rows, filters), nil
}

// GetPaginated searches, drops soft-deleted rows and slices the requested page.
func (c *Client) GetPaginated(ctx context.Context, worksheet string, page, limit int, filters map[string]string) ([]Row, Pagination, error) {
	rows, err := c.Search(ctx, worksheet, filters)
	if err != nil {
		return nil, Pagination{}, err
	}
	data, pagination := Paginate(WithoutDeleted(rows), page, limit)
	return data, pagination, nil
}

// GetStats counts rows by deletion state.
func (c *Client) GetStats(ctx context.Context, worksheet string) (Stats, error) {
	rows, err := c.GetAllData(ctx, worksheet)
	if err != nil {
		return Stats{}, err
	}
	active := len(WithoutDeleted(rows))
	return Stats{Total: len(rows), Active: active, Deleted: len(rows) - active}, nil
}

// InitializeWorksheet creates the worksheet when missing and writes its header row.
func (c *Client) InitializeWorksheet(ctx context.Context, worksheet string) ([]string, error) {
	headers, ok := c.schema.Headers(worksheet)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorksheet, worksheet)
	}

	var titles []string
	if err := c.call(ctx, "sheet_titles", worksheet, func() (err error) {
		titles, err = c.backend.SheetTitles(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", worksheet, err)
	}

	exists := false
	for _, title := range titles {
		if strings.EqualFold(title, worksheet) {
			exists = true
			break
		}
	}
	if !exists {
		if err := c.call(ctx, "add_sheet", worksheet, func() error {
			return c.backend.AddSheet(ctx, worksheet)
		}); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", worksheet, err)
		}
	}

	if err := c.call(ctx, "update_row", worksheet, func() error {
		return c.backend.UpdateRow(ctx, worksheet, 1, headers)
	}); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", worksheet, err)
	}
	return headers, nil
}

// ClearWorksheet removes every data row, keeping the header row.
func (c *Client) ClearWorksheet(ctx context.Context, worksheet string) error {
	unlock := c.lock(worksheet)
	defer unlock()

	if err := c.call(ctx, "clear_rows", worksheet, func() error {
		return c.backend.ClearRows(ctx, worksheet, 2)
	}); err != nil {
		return fmt.Errorf("clear %s: %w", worksheet, err)
	}
	return nil
}

// TestConnection fetches the spreadsheet metadata. Failures are reported in the status, never returned.
func (c *Client) TestConnection(ctx context.Context) ConnectionStatus {
	var title string
	err := c.call(ctx, "spreadsheet_title", "", func() (err error) {
		title, err = c.backend.SpreadsheetTitle(ctx)
		return err
	})
	if err != nil {
		return ConnectionStatus{Connected: false, Error: err.Error()}
	}
	return ConnectionStatus{Connected: true, SpreadsheetTitle: title, SpreadsheetID: c.backend.SpreadsheetID()}
}

// Filter keeps rows matching every non-empty filter as a case-insensitive substring.
func Filter(rows []Row, filters map[string]string) []Row {
	out := make([]Row, 0, len(rows))
outer:
	for _, row := range rows {
		for key, want := range filters {
			if want == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(row[key]), strings.ToLower(want)) {
				continue outer
			}
		}
		out = append(out, row)
	}
	return out
}

// WithoutDeleted drops soft-deleted rows.
func WithoutDeleted(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !row.Deleted() {
			out = append(out, row)
		}
	}
	return out
}

func (c *Client) read(ctx context.Context, worksheet string) ([]string, []Row, error) {
	var grid [][]string
	if err := c.call(ctx, "get_rows", worksheet, func() (err error) {
		grid, err = c.backend.GetRows(ctx, worksheet)
		return err
	}); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", worksheet, err)
	}
	if len(grid) == 0 {
		return nil, []Row{}, nil
	}

	headers := grid[0]
	rows := make([]Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func (c *Client) prepareInsert(row Row, headers []string) Row {
	stored := make(Row, len(headers))
	for _, h := range headers {
		stored[h] = row[h]
	}
	if stored[HeaderID] == "" {
		stored[HeaderID] = c.newID(c.now())
	}
	ts := c.timestamp()
	stored[HeaderCreatedAt] = ts
	stored[HeaderUpdatedAt] = ts
	return stored
}

func (c *Client) timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

func (c *Client) lock(worksheet string) func() {
	key := strings.ToLower(worksheet)
	c.mu.Lock()
	m, ok := c.locks[key]
	if !ok {
		m = &sync.Mutex{}
		c.locks[key] = m
	}
	c.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func (c *Client) call(ctx context.Context, op, worksheet string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	if c.observer != nil {
		c.observer.ObserveSheetCall(op, worksheet, time.Since(start), err)
	}
	if err != nil {
		c.logger.Error("sheet backend call failed",
			zap.String("operation", op),
			zap.String("worksheet", worksheet),
			zap.Error(err),
		)
	}
	return err
}
