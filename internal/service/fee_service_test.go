package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

func seedFees(t *testing.T, svc *FeeService) []*models.Fee {
	t.Helper()
	rows := []sheets.Row{
		{"Student ID": "stu-a", "Course ID": "crs-basic", "Amount": "5000", "Due Date": "2024-02-15"},
		{"Student ID": "stu-a", "Course ID": "crs-web", "Amount": "7500.50", "Due Date": "2024-03-20"},
		{"Student ID": "stu-b", "Course ID": "crs-basic", "Amount": "5000", "Due Date": "2024-01-31", "Status": "paid", "Paid Date": "2024-01-30", "Payment Method": "upi"},
	}
	out := make([]*models.Fee, 0, len(rows))
	for _, row := range rows {
		fee, err := svc.Create(context.Background(), row)
		require.NoError(t, err)
		out = append(out, fee)
	}
	return out
}

func TestFeeCreateDefaultsToPending(t *testing.T) {
	cache := &recordingInvalidator{}
	svc := newTestFees(t, newTestClient(t, true), cache)

	fee, err := svc.Create(context.Background(), sheets.Row{"Student ID": "stu-a", "Course ID": "crs-basic", "Amount": "5000", "Due Date": "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPending, fee.Status)
	assert.Equal(t, 5000.0, fee.Amount)
	assert.Empty(t, fee.PaymentMethod)
	assert.Equal(t, []string{dashboardCachePattern}, cache.patterns)
}

func TestFeeCreateValidation(t *testing.T) {
	svc := newTestFees(t, newTestClient(t, true), nil)
	ctx := context.Background()
	base := func() sheets.Row {
		return sheets.Row{"Student ID": "stu-a", "Course ID": "crs-basic", "Amount": "5000", "Due Date": "2024-03-31"}
	}

	missing := base()
	delete(missing, "Due Date")
	_, err := svc.Create(ctx, missing)
	require.Error(t, err)
	assert.Equal(t, "Due Date is required", err.Error())

	badAmount := base()
	badAmount["Amount"] = "lots"
	_, err = svc.Create(ctx, badAmount)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	badStatus := base()
	badStatus["Status"] = "waived"
	_, err = svc.Create(ctx, badStatus)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	badMethod := base()
	badMethod["Payment Method"] = "barter"
	_, err = svc.Create(ctx, badMethod)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	bornDeleted := base()
	bornDeleted["Status"] = sheets.StatusDeleted
	_, err = svc.Create(ctx, bornDeleted)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Status cannot be set to deleted", err.Error())
}

func TestFeeListFilters(t *testing.T) {
	svc := newTestFees(t, newTestClient(t, true), nil)
	ctx := context.Background()
	seedFees(t, svc)

	byStudent, pagination, err := svc.ByStudent(ctx, "stu-a", 1, 10)
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)
	assert.Equal(t, 2, pagination.Total)

	pending, _, err := svc.Pending(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	found, _, err := svc.Search(ctx, "upi", 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "stu-b", found[0].StudentID)

	combined, _, err := svc.List(ctx, models.FeeFilter{CourseID: "crs-basic", Status: models.FeeStatusPaid})
	require.NoError(t, err)
	assert.Len(t, combined, 1)
}

func TestFeeMarkAsPaid(t *testing.T) {
	svc := newTestFees(t, newTestClient(t, true), nil)
	ctx := context.Background()
	fees := seedFees(t, svc)

	paid, err := svc.MarkAsPaid(ctx, fees[0].ID, models.PaymentRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPaid, paid.Status)
	assert.Equal(t, "2024-03-01", paid.PaidDate)
	assert.Equal(t, models.PaymentCash, paid.PaymentMethod)

	card, err := svc.MarkAsPaid(ctx, fees[1].ID, models.PaymentRequest{PaidDate: "2024-02-28", PaymentMethod: models.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", card.PaidDate)
	assert.Equal(t, models.PaymentCard, card.PaymentMethod)

	_, err = svc.MarkAsPaid(ctx, fees[1].ID, models.PaymentRequest{PaymentMethod: "barter"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.MarkAsPaid(ctx, fees[1].ID, models.PaymentRequest{PaidDate: "28/02/2024"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.MarkAsPaid(ctx, "missing", models.PaymentRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, msgFeeNotFound, err.Error())
}

func TestFeeStatsTotals(t *testing.T) {
	svc := newTestFees(t, newTestClient(t, true), nil)
	ctx := context.Background()
	fees := seedFees(t, svc)
	_, err := svc.Create(ctx, sheets.Row{"Student ID": "stu-c", "Course ID": "crs-web", "Amount": "999", "Due Date": "2024-04-01"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, fees[0].ID))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, map[string]int{"pending": 2, "paid": 1}, stats.ByStatus)
	assert.Equal(t, models.FeeAmounts{Total: 13499.5, Paid: 5000, Pending: 8499.5}, stats.Amounts)
}

func TestFeeMarkOverdue(t *testing.T) {
	cache := &recordingInvalidator{}
	svc := newTestFees(t, newTestClient(t, true), cache)
	ctx := context.Background()
	fees := seedFees(t, svc)
	cache.patterns = nil

	changed, err := svc.MarkOverdue(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Len(t, cache.patterns, 1)

	overdue, err := svc.Get(ctx, fees[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusOverdue, overdue.Status)

	notYet, err := svc.Get(ctx, fees[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPending, notYet.Status)

	paid, err := svc.Get(ctx, fees[2].ID)
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPaid, paid.Status)

	changed, err = svc.MarkOverdue(ctx, testNow)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestOverdueSweepTaskRecordsMetric(t *testing.T) {
	svc := newTestFees(t, newTestClient(t, true), nil)
	seedFees(t, svc)
	metrics := NewMetricsService()

	task := NewOverdueSweep(svc, metrics, func() time.Time { return testNow.AddDate(0, 1, 0) })
	require.NoError(t, task(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.sweepUpdated))
}

func TestFeeBulkImport(t *testing.T) {
	svc := newTestFees(t, newTestClient(t, true), nil)

	result := svc.BulkImport(context.Background(), []sheets.Row{
		{"Student ID": "stu-a", "Course ID": "crs-basic", "Amount": "5000", "Due Date": "2024-03-31"},
		{"Student ID": "stu-b", "Amount": "5000", "Due Date": "2024-03-31"},
	})
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, "Course ID is required", result.ErrorDetails[0].Error)
}
