package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

// dashboardCachePattern matches every cached dashboard payload.
const dashboardCachePattern = "dash:*"

const dateLayout = "2006-01-02"

type worksheetRepository interface {
	Worksheet() string
	Headers() []string
	All(ctx context.Context) ([]sheets.Row, error)
	Active(ctx context.Context) ([]sheets.Row, error)
	FindByID(ctx context.Context, id string) (sheets.Row, error)
	Insert(ctx context.Context, row sheets.Row) (sheets.Row, error)
	Update(ctx context.Context, id string, patch sheets.Row) (sheets.Row, error)
	SoftDelete(ctx context.Context, id string) error
	Page(ctx context.Context, page, limit int, filters map[string]string) ([]sheets.Row, sheets.Pagination, error)
	Stats(ctx context.Context) (sheets.Stats, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// requireFields returns a validation error naming the first blank field.
func requireFields(row sheets.Row, fields ...string) error {
	for _, field := range fields {
		if strings.TrimSpace(row[field]) == "" {
			return appErrors.Validation(fmt.Sprintf("%s is required", field))
		}
	}
	return nil
}

// requireNumbers rejects non-empty values that do not parse as numbers.
func requireNumbers(row sheets.Row, fields ...string) error {
	for _, field := range fields {
		raw, ok := row[field]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
			return appErrors.Validation(fmt.Sprintf("%s must be a number", field))
		}
	}
	return nil
}

// requireOneOf rejects non-empty values outside allowed.
func requireOneOf(row sheets.Row, field string, allowed []string) error {
	value, ok := row[field]
	if !ok || value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return appErrors.Validation(fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
}

// rejectDeletedStatus keeps new rows from being born soft-deleted.
func rejectDeletedStatus(row sheets.Row) error {
	if strings.EqualFold(strings.TrimSpace(row[sheets.HeaderStatus]), sheets.StatusDeleted) {
		return appErrors.Validation("Status cannot be set to deleted")
	}
	return nil
}

// sanitizePatch drops columns callers may not overwrite.
func sanitizePatch(patch sheets.Row) sheets.Row {
	out := patch.Clone()
	delete(out, sheets.HeaderID)
	delete(out, sheets.HeaderCreatedAt)
	delete(out, sheets.HeaderUpdatedAt)
	return out
}

// matchAny keeps non-deleted rows where any field contains term, ignoring case.
func matchAny(rows []sheets.Row, term string, fields ...string) []sheets.Row {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]sheets.Row, 0, len(rows))
	for _, row := range rows {
		if row.Deleted() {
			continue
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(row[field]), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// findEqualFold returns the first non-deleted row whose field equals value ignoring case.
func findEqualFold(rows []sheets.Row, field, value string) sheets.Row {
	value = strings.TrimSpace(value)
	for _, row := range rows {
		if row.Deleted() {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[field]), value) {
			return row
		}
	}
	return nil
}

// takenByOther reports whether a non-deleted row other than id has field equal to value ignoring case.
func takenByOther(rows []sheets.Row, field, value, id string) bool {
	value = strings.TrimSpace(value)
	for _, row := range rows {
		if row.Deleted() || row[sheets.HeaderID] == id {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[field]), value) {
			return true
		}
	}
	return false
}

// withStatus keeps rows whose status equals status ignoring case. An empty status keeps everything.
func withStatus(rows []sheets.Row, status string) []sheets.Row {
	if status == "" {
		return rows
	}
	out := make([]sheets.Row, 0, len(rows))
	for _, row := range rows {
		if strings.EqualFold(row[sheets.HeaderStatus], status) {
			out = append(out, row)
		}
	}
	return out
}

func countBy(rows []sheets.Row, field, fallback string) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		key := row[field]
		if key == "" {
			key = fallback
		}
		counts[key]++
	}
	return counts
}

func parseAmount(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// parseDate accepts plain dates and RFC 3339 timestamps.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sortByDate orders rows by the first parseable field, newest first when desc.
// Rows without a date sort last.
func sortByDate(rows []sheets.Row, desc bool, fields ...string) {
	dated := func(row sheets.Row) (time.Time, bool) {
		for _, f := range fields {
			if t, ok := parseDate(row[f]); ok {
				return t, true
			}
		}
		return time.Time{}, false
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := dated(rows[i])
		b, bok := dated(rows[j])
		if aok != bok {
			return aok
		}
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})
}

func decodeRows[T any](rows []sheets.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := sheets.Decode(row, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func decodeRow[T any](row sheets.Row) (*T, error) {
	var item T
	if err := sheets.Decode(row, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// remoteError converts backend failures into a 500 carrying the underlying message.
func remoteError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*appErrors.Error); ok {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
}

func invalidateDashboard(ctx context.Context, cache cacheInvalidator) {
	if cache == nil {
		return
	}
	_ = cache.Invalidate(ctx, dashboardCachePattern)
}
