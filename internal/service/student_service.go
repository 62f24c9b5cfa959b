package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

var (
	studentRequired     = []string{"First Name", "Last Name", "Email"}
	studentSearchFields = []string{"First Name", "Last Name", "Email", "Phone", "Course"}
)

const (
	msgStudentNotFound  = "Student not found"
	msgStudentDuplicate = "Student with this email already exists"
)

// StudentService handles student use-cases over the Students worksheet.
type StudentService struct {
	repo   worksheetRepository
	cache  cacheInvalidator
	logger *zap.Logger
	now    func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo worksheetRepository, cache cacheInvalidator, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// List returns one page of students. A search term matches across name, email, phone and course;
// status must match exactly.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, sheets.Pagination, error) {
	filters := map[string]string{"Course": filter.Course}
	if filter.Search != "" || filter.Status != "" {
		rows, err := s.repo.Active(ctx)
		if err != nil {
			return nil, sheets.Pagination{}, remoteError(err)
		}
		rows = withStatus(sheets.Filter(rows, filters), filter.Status)
		if filter.Search != "" {
			rows = matchAny(rows, filter.Search, studentSearchFields...)
		}
		page, pagination := sheets.Paginate(rows, filter.Page, filter.Limit)
		students, err := decodeRows[models.Student](page)
		return students, pagination, err
	}

	rows, pagination, err := s.repo.Page(ctx, filter.Page, filter.Limit, filters)
	if err != nil {
		return nil, sheets.Pagination{}, remoteError(err)
	}
	students, err := decodeRows[models.Student](rows)
	return students, pagination, err
}

// Search is List restricted to a search term.
func (s *StudentService) Search(ctx context.Context, term string, page, limit int) ([]models.Student, sheets.Pagination, error) {
	return s.List(ctx, models.StudentFilter{Search: term, Page: page, Limit: limit})
}

// ByCourse pages students whose course contains course.
func (s *StudentService) ByCourse(ctx context.Context, course string, page, limit int) ([]models.Student, sheets.Pagination, error) {
	return s.List(ctx, models.StudentFilter{Course: course, Page: page, Limit: limit})
}

// Get returns a non-deleted student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeRow[models.Student](row)
}

// GetByEmail returns the non-deleted student with email, or nil.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	row := findEqualFold(rows, "Email", email)
	if row == nil {
		return nil, nil
	}
	return decodeRow[models.Student](row)
}

// Create validates and appends a student.
func (s *StudentService) Create(ctx context.Context, input sheets.Row) (*models.Student, error) {
	if err := requireFields(input, studentRequired...); err != nil {
		return nil, err
	}
	if err := rejectDeletedStatus(input); err != nil {
		return nil, err
	}
	existing, err := s.GetByEmail(ctx, input["Email"])
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, msgStudentDuplicate)
	}

	row := sanitizePatch(input)
	if row["Enrollment Date"] == "" {
		row["Enrollment Date"] = s.now().UTC().Format(dateLayout)
	}
	if row["Status"] == "" {
		row["Status"] = sheets.StatusActive
	}

	stored, err := s.repo.Insert(ctx, row)
	if err != nil {
		s.logger.Error("failed to create student", zap.Error(err))
		return nil, remoteError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return decodeRow[models.Student](stored)
}

// Update merges patch into a student, rechecking email uniqueness when it changes.
func (s *StudentService) Update(ctx context.Context, id string, patch sheets.Row) (*models.Student, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	patch = sanitizePatch(patch)
	if email, ok := patch["Email"]; ok {
		if email == "" {
			return nil, appErrors.Validation("Email is required")
		}
		if email != existing["Email"] {
			rows, err := s.repo.All(ctx)
			if err != nil {
				return nil, remoteError(err)
			}
			if takenByOther(rows, "Email", email, id) {
				return nil, appErrors.Clone(appErrors.ErrConflict, msgStudentDuplicate)
			}
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return decodeRow[models.Student](updated)
}

// Delete soft-deletes a student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.writeError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return nil
}

// Stats summarises students by status and course.
func (s *StudentService) Stats(ctx context.Context) (*models.StudentStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	rows, err := s.repo.Active(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	return &models.StudentStats{
		SheetStats: stats,
		ByStatus:   countBy(rows, "Status", sheets.StatusActive),
		ByCourse:   countBy(rows, "Course", "Not Assigned"),
	}, nil
}

// Recent returns the newest students by enrollment date, falling back to creation time.
func (s *StudentService) Recent(ctx context.Context, limit int) ([]models.Student, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.repo.Active(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	sortByDate(rows, true, "Enrollment Date", sheets.HeaderCreatedAt)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return decodeRows[models.Student](rows)
}

// BulkImport creates each row in order and reports failures per row.
func (s *StudentService) BulkImport(ctx context.Context, rows []sheets.Row) models.BulkImportResult[models.Student] {
	return bulkImport(ctx, rows, s.Create)
}

func (s *StudentService) find(ctx context.Context, id string) (sheets.Row, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, remoteError(err)
	}
	if row == nil || row.Deleted() {
		return nil, appErrors.NotFound(msgStudentNotFound)
	}
	return row, nil
}

func (s *StudentService) writeError(err error) error {
	if errors.Is(err, sheets.ErrRowNotFound) {
		return appErrors.NotFound(msgStudentNotFound)
	}
	s.logger.Error("failed to write student", zap.Error(err))
	return remoteError(err)
}

// bulkImport runs create sequentially over rows.
func bulkImport[T any](ctx context.Context, rows []sheets.Row, create func(context.Context, sheets.Row) (*T, error)) models.BulkImportResult[T] {
	result := models.BulkImportResult[T]{Results: []T{}, ErrorDetails: []models.BulkImportError{}}
	for i, row := range rows {
		created, err := create(ctx, row)
		if err != nil {
			result.ErrorDetails = append(result.ErrorDetails, models.BulkImportError{Row: i + 1, Data: row, Error: err.Error()})
			continue
		}
		result.Results = append(result.Results, *created)
	}
	result.Imported = len(result.Results)
	result.Errors = len(result.ErrorDetails)
	return result
}
