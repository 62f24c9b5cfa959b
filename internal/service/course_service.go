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
	courseRequired     = []string{"Course Name", "Duration", "Fee"}
	courseSearchFields = []string{"Course Name", "Description", "Instructor"}
)

const (
	msgCourseNotFound  = "Course not found"
	msgCourseDuplicate = "Course with this name already exists"
)

// CourseService handles course use-cases over the Courses worksheet.
type CourseService struct {
	repo   worksheetRepository
	cache  cacheInvalidator
	logger *zap.Logger
	now    func() time.Time
}

// NewCourseService constructs the course service.
func NewCourseService(repo worksheetRepository, cache cacheInvalidator, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// List returns one page of courses, optionally narrowed by fee range and search term.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, sheets.Pagination, error) {
	filters := map[string]string{"Instructor": filter.Instructor}
	if filter.Search == "" && filter.Status == "" && filter.MinFee == nil && filter.MaxFee == nil {
		rows, pagination, err := s.repo.Page(ctx, filter.Page, filter.Limit, filters)
		if err != nil {
			return nil, sheets.Pagination{}, remoteError(err)
		}
		courses, err := decodeRows[models.Course](rows)
		return courses, pagination, err
	}

	rows, err := s.repo.Active(ctx)
	if err != nil {
		return nil, sheets.Pagination{}, remoteError(err)
	}
	rows = withStatus(sheets.Filter(rows, filters), filter.Status)
	if filter.Search != "" {
		rows = matchAny(rows, filter.Search, courseSearchFields...)
	}
	if filter.MinFee != nil || filter.MaxFee != nil {
		rows = withinFeeRange(rows, filter.MinFee, filter.MaxFee)
	}
	page, pagination := sheets.Paginate(rows, filter.Page, filter.Limit)
	courses, err := decodeRows[models.Course](page)
	return courses, pagination, err
}

// Search is List restricted to a search term.
func (s *CourseService) Search(ctx context.Context, term string, page, limit int) ([]models.Course, sheets.Pagination, error) {
	return s.List(ctx, models.CourseFilter{Search: term, Page: page, Limit: limit})
}

// ByInstructor pages courses whose instructor contains instructor.
func (s *CourseService) ByInstructor(ctx context.Context, instructor string, page, limit int) ([]models.Course, sheets.Pagination, error) {
	return s.List(ctx, models.CourseFilter{Instructor: instructor, Page: page, Limit: limit})
}

// Active pages courses with status active.
func (s *CourseService) Active(ctx context.Context, page, limit int) ([]models.Course, sheets.Pagination, error) {
	return s.List(ctx, models.CourseFilter{Status: sheets.StatusActive, Page: page, Limit: limit})
}

// ByFeeRange pages courses whose fee lies within [min, max].
func (s *CourseService) ByFeeRange(ctx context.Context, minFee, maxFee float64, page, limit int) ([]models.Course, sheets.Pagination, error) {
	return s.List(ctx, models.CourseFilter{MinFee: &minFee, MaxFee: &maxFee, Page: page, Limit: limit})
}

// Get returns a non-deleted course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeRow[models.Course](row)
}

// GetByName returns the non-deleted course with name, or nil.
func (s *CourseService) GetByName(ctx context.Context, name string) (*models.Course, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	row := findEqualFold(rows, "Course Name", name)
	if row == nil {
		return nil, nil
	}
	return decodeRow[models.Course](row)
}

// Create validates and appends a course.
func (s *CourseService) Create(ctx context.Context, input sheets.Row) (*models.Course, error) {
	if err := requireFields(input, courseRequired...); err != nil {
		return nil, err
	}
	if err := rejectDeletedStatus(input); err != nil {
		return nil, err
	}
	if err := requireNumbers(input, "Fee"); err != nil {
		return nil, err
	}
	existing, err := s.GetByName(ctx, input["Course Name"])
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, msgCourseDuplicate)
	}

	row := sanitizePatch(input)
	if row["Start Date"] == "" {
		row["Start Date"] = s.now().UTC().Format(dateLayout)
	}
	if row["Status"] == "" {
		row["Status"] = sheets.StatusActive
	}

	stored, err := s.repo.Insert(ctx, row)
	if err != nil {
		s.logger.Error("failed to create course", zap.Error(err))
		return nil, remoteError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return decodeRow[models.Course](stored)
}

// Update merges patch into a course, rechecking name uniqueness when it changes.
func (s *CourseService) Update(ctx context.Context, id string, patch sheets.Row) (*models.Course, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	patch = sanitizePatch(patch)
	if err := requireNumbers(patch, "Fee"); err != nil {
		return nil, err
	}
	if name, ok := patch["Course Name"]; ok {
		if name == "" {
			return nil, appErrors.Validation("Course Name is required")
		}
		if name != existing["Course Name"] {
			rows, err := s.repo.All(ctx)
			if err != nil {
				return nil, remoteError(err)
			}
			if takenByOther(rows, "Course Name", name, id) {
				return nil, appErrors.Clone(appErrors.ErrConflict, msgCourseDuplicate)
			}
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.writeError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return decodeRow[models.Course](updated)
}

// Delete soft-deletes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return s.writeError(err)
	}
	invalidateDashboard(ctx, s.cache)
	return nil
}

// Stats summarises courses by status and instructor with the average fee.
func (s *CourseService) Stats(ctx context.Context) (*models.CourseStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	rows, err := s.repo.Active(ctx)
	if err != nil {
		return nil, remoteError(err)
	}

	var total float64
	for _, row := range rows {
		total += parseAmount(row["Fee"])
	}
	var average float64
	if len(rows) > 0 {
		average = total / float64(len(rows))
	}

	return &models.CourseStats{
		SheetStats:   stats,
		ByStatus:     countBy(rows, "Status", sheets.StatusActive),
		ByInstructor: countBy(rows, "Instructor", "Not Assigned"),
		AverageFee:   round2(average),
	}, nil
}

// SelectOptions lists active courses in the compact select form.
func (s *CourseService) SelectOptions(ctx context.Context) ([]models.CourseOption, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	options := make([]models.CourseOption, 0, len(rows))
	for _, row := range rows {
		if row["Status"] != sheets.StatusActive {
			continue
		}
		options = append(options, models.CourseOption{
			ID:       row.ID(),
			Name:     row["Course Name"],
			Fee:      parseAmount(row["Fee"]),
			Duration: row["Duration"],
		})
	}
	return options, nil
}

// Upcoming returns active courses starting today or later, earliest first.
func (s *CourseService) Upcoming(ctx context.Context, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	today := dayOf(s.now().UTC())
	upcoming := make([]sheets.Row, 0)
	for _, row := range rows {
		if row["Status"] != sheets.StatusActive {
			continue
		}
		start, ok := parseDate(row["Start Date"])
		if ok && !start.Before(today) {
			upcoming = append(upcoming, row)
		}
	}
	sortByDate(upcoming, false, "Start Date")
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return decodeRows[models.Course](upcoming)
}

// BulkImport creates each row in order and reports failures per row.
func (s *CourseService) BulkImport(ctx context.Context, rows []sheets.Row) models.BulkImportResult[models.Course] {
	return bulkImport(ctx, rows, s.Create)
}

func (s *CourseService) find(ctx context.Context, id string) (sheets.Row, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, remoteError(err)
	}
	if row == nil || row.Deleted() {
		return nil, appErrors.NotFound(msgCourseNotFound)
	}
	return row, nil
}

func (s *CourseService) writeError(err error) error {
	if errors.Is(err, sheets.ErrRowNotFound) {
		return appErrors.NotFound(msgCourseNotFound)
	}
	s.logger.Error("failed to write course", zap.Error(err))
	return remoteError(err)
}

func withinFeeRange(rows []sheets.Row, minFee, maxFee *float64) []sheets.Row {
	out := make([]sheets.Row, 0, len(rows))
	for _, row := range rows {
		fee := parseAmount(row["Fee"])
		if minFee != nil && fee < *minFee {
			continue
		}
		if maxFee != nil && fee > *maxFee {
			continue
		}
		out = append(out, row)
	}
	return out
}
