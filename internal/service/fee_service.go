package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

var (
	feeRequired     = []string{"Student ID", "Course ID", "Amount", "Due Date"}
	feeSearchFields = []string{"Student ID", "Course ID", "Status", "Payment Method"}
)

const msgFeeNotFound = "Fee record not found"

// feeStatusesWritable also admits the soft-delete marker on updates; Create rejects it.
var feeStatusesWritable = []string{
	models.FeeStatusPending, models.FeeStatusPaid, models.FeeStatusOverdue, models.FeeStatusPartial, sheets.StatusDeleted,
}

// FeeService handles fee records over the Fees worksheet.
type FeeService struct {
	repo      worksheetRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewFeeService constructs the fee service.
func NewFeeService(repo worksheetRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns one page of fee records.
func (s *FeeService) List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, sheets.Pagination, error) {
	filters := map[string]string{
		"Student ID": filter.StudentID,
		"Course ID":  filter.CourseID,
	}
	if filter.Search != "" || filter.Status != "" {
		rows, err := s.repo.Active(ctx)
		if err != nil {
			return nil, sheets.Pagination{}, remoteError(err)
		}
		rows = withStatus(sheets.Filter(rows, filters), filter.Status)
		if filter.Search != "" {
			rows = matchAny(rows, filter.Search, feeSearchFields...)
		}
		page, pagination := sheets.Paginate(rows, filter.Page, filter.Limit)
		fees, err := decodeRows[models.Fee](page)
		return fees, pagination, err
	}

	rows, pagination, err := s.repo.Page(ctx, filter.Page, filter.Limit, filters)
	if err != nil {
		return nil, sheets.Pagination{}, remoteError(err)
	}
	fees, err := decodeRows[models.Fee](rows)
	return fees, pagination, err
}

// Search is List restricted to a search term.
func (s *FeeService) Search(ctx context.Context, term string, page, limit int) ([]models.Fee, sheets.Pagination, error) {
	return s.List(ctx, models.FeeFilter{Search: term, Page: page, Limit: limit})
}

// ByStudent pages the fees of one student.
func (s *FeeService) ByStudent(ctx context.Context, studentID string, page, limit int) ([]models.Fee, sheets.Pagination, error) {
	return s.List(ctx, models.FeeFilter{StudentID: studentID, Page: page, Limit: limit})
}

// Pending pages fees awaiting payment.
func (s *FeeService) Pending(ctx context.Context, page, limit int) ([]models.Fee, sheets.Pagination, error) {
	return s.List(ctx, models.FeeFilter{Status: models.FeeStatusPending, Page: page, Limit: limit})
}

// Get returns a non-deleted fee record.
func (s *FeeService) Get(ctx context.Context, id string) (*models.Fee, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeRow[models.Fee](row)
}

// Create validates and appends a fee record.
func (s *FeeService) Create(ctx context.Context, input sheets.Row) (*models.Fee, error) {
	if err := requireFields(input, feeRequired...); err != nil {
		return nil, err
	}
	if err := rejectDeletedStatus(input); err != nil {
		return nil, err
	}
	if err := s.validateValues(input); err != nil {
		return nil, err
	}

	row := sanitizePatch(input)
	if row["Status"] == "" {
		row["Status"] = models.FeeStatusPending
	}
	if _, ok := row["Payment Method"]; !ok {
		row["Payment Method"] = ""
	}

	stored, err := s.repo.Insert(ctx, row)
	if err != nil {
		s.logger.Error("failed to create fee", zap.Error(err))
		return nil, remoteError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return decodeRow[models.Fee](stored)
}

// Update merges patch into a fee record.
func (s *FeeService) Update(ctx context.Context, id string, patch sheets.Row) (*models.Fee, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	patch = sanitizePatch(patch)
	if err := s.validateValues(patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return decodeRow[models.Fee](updated)
}

// Delete soft-deletes a fee record.
func (s *FeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.writeError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return nil
}

// MarkAsPaid settles a fee, defaulting the paid date to today and the method to cash.
func (s *FeeService) MarkAsPaid(ctx context.Context, id string, req models.PaymentRequest) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if req.PaidDate == "" {
		req.PaidDate = s.now().UTC().Format(dateLayout)
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	return s.Update(ctx, id, sheets.Row{
		"Status":         models.FeeStatusPaid,
		"Paid Date":      req.PaidDate,
		"Payment Method": req.PaymentMethod,
	})
}

// MarkOverdue moves pending fees due before today to overdue and returns how many changed.
func (s *FeeService) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	rows, err := s.repo.Active(ctx)
	if err != nil {
		return 0, remoteError(err)
	}
	cutoff := dayOf(today.UTC())
	changed := 0
	for _, row := range rows {
		if row["Status"] != models.FeeStatusPending {
			continue
		}
		due, ok := parseDate(row["Due Date"])
		if !ok || !due.Before(cutoff) {
			continue
		}
		if _, err := s.repo.Update(ctx, row.ID(), sheets.Row{"Status": models.FeeStatusOverdue}); err != nil {
			s.logger.Error("failed to mark fee overdue", zap.String("fee_id", row.ID()), zap.Error(err))
			return changed, remoteError(err)
		}
		changed++
	}
	if changed > 0 {
		invalidateDashboard(ctx, s.cache)
	}
	s.logger.Info("overdue sweep finished", zap.Int("updated", changed))
	return changed, nil
}

// Stats summarises fees by status with amount totals.
func (s *FeeService) Stats(ctx context.Context) (*models.FeeStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	rows, err := s.repo.Active(ctx)
	if err != nil {
		return nil, remoteError(err)
	}

	var total, paid float64
	for _, row := range rows {
		amount := parseAmount(row["Amount"])
		total += amount
		if row["Status"] == models.FeeStatusPaid {
			paid += amount
		}
	}

	return &models.FeeStats{
		SheetStats: stats,
		ByStatus:   countBy(rows, "Status", models.FeeStatusPending),
		Amounts: models.FeeAmounts{
			Total:   round2(total),
			Paid:    round2(paid),
			Pending: round2(total - paid),
		},
	}, nil
}

// BulkImport creates each row in order and reports failures per row.
func (s *FeeService) BulkImport(ctx context.Context, rows []sheets.Row) models.BulkImportResult[models.Fee] {
	return bulkImport(ctx, rows, s.Create)
}

func (s *FeeService) validateValues(row sheets.Row) error {
	if err := requireNumbers(row, "Amount"); err != nil {
		return err
	}
	if err := requireOneOf(row, "Status", feeStatusesWritable); err != nil {
		return err
	}
	return requireOneOf(row, "Payment Method", models.PaymentMethods)
}

func (s *FeeService) find(ctx context.Context, id string) (sheets.Row, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, remoteError(err)
	}
	if row == nil || row.Deleted() {
		return nil, appErrors.NotFound(msgFeeNotFound)
	}
	return row, nil
}

func (s *FeeService) writeError(err error) error {
	if errors.Is(err, sheets.ErrRowNotFound) {
		return appErrors.NotFound(msgFeeNotFound)
	}
	s.logger.Error("failed to write fee", zap.Error(err))
	return remoteError(err)
}
