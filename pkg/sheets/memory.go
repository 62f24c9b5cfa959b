package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryBackend keeps the grid in process memory. Used for local runs and tests.
type MemoryBackend struct {
	id    string
	title string

	mu     sync.RWMutex
	order  []string
	sheets map[string][][]string
}

// NewMemoryBackend creates an empty spreadsheet.
func NewMemoryBackend(id, title string) *MemoryBackend {
	return &MemoryBackend{id: id, title: title, sheets: make(map[string][][]string)}
}

func (m *MemoryBackend) SpreadsheetID() string { return m.id }

func (m *MemoryBackend) SpreadsheetTitle(context.Context) (string, error) {
	return m.title, nil
}

func (m *MemoryBackend) SheetTitles(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryBackend) AddSheet(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(title)
	if _, ok := m.sheets[key]; ok {
		return fmt.Errorf("a sheet with the name %q already exists", title)
	}
	m.sheets[key] = nil
	m.order = append(m.order, title)
	return nil
}

func (m *MemoryBackend) GetRows(_ context.Context, title string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	grid, ok := m.sheets[strings.ToLower(title)]
	if !ok {
		return nil, fmt.Errorf("unable to parse range: %s!A:Z", title)
	}

	// trailing empty rows are not reported, like the remote API
	last := len(grid)
	for last > 0 && isEmpty(grid[last-1]) {
		last--
	}
	out := make([][]string, last)
	for i := 0; i < last; i++ {
		out[i] = append([]string(nil), grid[i]...)
	}
	return out, nil
}

func (m *MemoryBackend) AppendRow(_ context.Context, title string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(title)
	grid, ok := m.sheets[key]
	if !ok {
		return fmt.Errorf("unable to parse range: %s!A:A", title)
	}
	last := len(grid)
	for last > 0 && isEmpty(grid[last-1]) {
		last--
	}
	m.sheets[key] = append(grid[:last], append([]string(nil), values...))
	return nil
}

func (m *MemoryBackend) UpdateRow(_ context.Context, title string, rowNumber int, values []string) error {
	if rowNumber < 1 {
		return fmt.Errorf("invalid row number %d", rowNumber)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(title)
	grid, ok := m.sheets[key]
	if !ok {
		return fmt.Errorf("unable to parse range: %s!A%d:Z%d", title, rowNumber, rowNumber)
	}
	for len(grid) < rowNumber {
		grid = append(grid, nil)
	}
	grid[rowNumber-1] = append([]string(nil), values...)
	m.sheets[key] = grid
	return nil
}

func (m *MemoryBackend) ClearRows(_ context.Context, title string, fromRow int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(title)
	grid, ok := m.sheets[key]
	if !ok {
		return fmt.Errorf("unable to parse range: %s!A%d:Z", title, fromRow)
	}
	if fromRow < 1 {
		fromRow = 1
	}
	if len(grid) >= fromRow {
		m.sheets[key] = grid[:fromRow-1]
	}
	return nil
}

func isEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
