package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rbc-sheets-api/internal/dto"
	"github.com/noah-isme/rbc-sheets-api/internal/models"
)

const dashboardOverviewKey = "dash:overview"

type studentSummaryProvider interface {
	Stats(ctx context.Context) (*models.StudentStats, error)
	Recent(ctx context.Context, limit int) ([]models.Student, error)
}

type courseSummaryProvider interface {
	Stats(ctx context.Context) (*models.CourseStats, error)
	Upcoming(ctx context.Context, limit int) ([]models.Course, error)
}

type feeSummaryProvider interface {
	Stats(ctx context.Context) (*models.FeeStats, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
}

// DashboardService composes entity summaries for the admin dashboard.
type DashboardService struct {
	students studentSummaryProvider
	courses  courseSummaryProvider
	fees     feeSummaryProvider
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students studentSummaryProvider
	Courses  courseSummaryProvider
	Fees     feeSummaryProvider
	Cache    *CacheService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students: params.Students,
		courses:  params.Courses,
		fees:     params.Fees,
		cache:    params.Cache,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Overview returns the dashboard payload and whether it was served from cache.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardStats, bool, error) {
	var cached dto.DashboardStats
	if s.cache.Get(ctx, dashboardOverviewKey, &cached) {
		return &cached, true, nil
	}

	studentStats, err := s.students.Stats(ctx)
	if err != nil {
		return nil, false, err
	}
	courseStats, err := s.courses.Stats(ctx)
	if err != nil {
		return nil, false, err
	}
	recentStudents, err := s.students.Recent(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, false, err
	}
	upcoming, err := s.courses.Upcoming(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, false, err
	}

	result := &dto.DashboardStats{
		Students:    *studentStats,
		Courses:     *courseStats,
		Recent:      dto.DashboardRecent{Students: recentStudents, Courses: upcoming},
		GeneratedAt: s.now().UTC(),
	}
	if s.fees != nil {
		feeStats, err := s.fees.Stats(ctx)
		if err != nil {
			// fee summary is optional on the dashboard
			s.logger.Warn("dashboard fee stats unavailable", zap.Error(err))
		} else {
			result.Fees = feeStats
		}
	}

	s.cache.Set(ctx, dashboardOverviewKey, result, s.cfg.CacheTTL)
	return result, false, nil
}
