package service

import (
	"context"
	"time"

	"github.com/noah-isme/rbc-sheets-api/pkg/jobs"
)

// OverdueSweepTask is the scheduler name of the fee overdue sweep.
const OverdueSweepTask = "fee-overdue-sweep"

// NewOverdueSweep returns a task marking pending fees past their due date as overdue.
func NewOverdueSweep(fees *FeeService, metrics *MetricsService, now func() time.Time) jobs.Task {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		n, err := fees.MarkOverdue(ctx, now())
		metrics.AddOverdueMarked(n)
		return err
	}
}
