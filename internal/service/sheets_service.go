package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rbc-sheets-api/internal/dto"
	"github.com/noah-isme/rbc-sheets-api/pkg/config"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type sheetAdmin interface {
	SpreadsheetID() string
	TestConnection(ctx context.Context) sheets.ConnectionStatus
	InitializeWorksheet(ctx context.Context, worksheet string) ([]string, error)
	GetAllData(ctx context.Context, worksheet string) ([]sheets.Row, error)
	BatchAdd(ctx context.Context, worksheet string, rows []sheets.Row) ([]sheets.Row, error)
}

// SeedOptions configures sample data creation.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// SheetsService reports connectivity and prepares worksheets.
type SheetsService struct {
	client  sheetAdmin
	names   config.WorksheetNames
	backend string
	env     string
	logger  *zap.Logger
	now     func() time.Time
}

// NewSheetsService constructs a SheetsService.
func NewSheetsService(client sheetAdmin, cfg config.SheetsConfig, env string, logger *zap.Logger) *SheetsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsService{client: client, names: cfg.Worksheets, backend: cfg.Backend, env: env, logger: logger, now: time.Now}
}

func (s *SheetsService) datastoreType() string {
	switch s.backend {
	case config.BackendPostgres:
		return "PostgreSQL grid"
	case config.BackendMemory:
		return "In-memory grid"
	default:
		return "Google Sheets"
	}
}

// Status reports whether the spreadsheet is reachable along with the worksheet names.
func (s *SheetsService) Status(ctx context.Context) dto.SheetsStatus {
	conn := s.client.TestConnection(ctx)
	status := dto.SheetsStatus{Connected: conn.Connected, Timestamp: s.now().UTC()}
	if !conn.Connected {
		status.Error = conn.Error
		return status
	}
	names := s.names
	status.SpreadsheetID = conn.SpreadsheetID
	status.SpreadsheetTitle = conn.SpreadsheetTitle
	status.Sheets = &names
	return status
}

// Health builds the liveness payload. The boolean is false when the datastore is unreachable.
func (s *SheetsService) Health(ctx context.Context) (dto.HealthResponse, bool) {
	conn := s.client.TestConnection(ctx)
	resp := dto.HealthResponse{
		Status:      "OK",
		Timestamp:   s.now().UTC(),
		Environment: s.env,
		Database: dto.HealthDatabase{
			Type:          s.datastoreType(),
			Status:        "connected",
			SpreadsheetID: s.client.SpreadsheetID(),
		},
	}
	if !conn.Connected {
		resp.Database.Status = "disconnected"
		resp.Database.Error = conn.Error
	}
	return resp, conn.Connected
}

// Worksheets lists the configured worksheet titles in setup order.
func (s *SheetsService) Worksheets() []string {
	return []string{
		s.names.Students, s.names.Courses, s.names.Fees, s.names.Attendance,
		s.names.Notices, s.names.Certificates, s.names.Admins,
	}
}

// Setup verifies connectivity and initialises every worksheet. A failing worksheet does not stop the rest.
func (s *SheetsService) Setup(ctx context.Context) ([]dto.WorksheetSetup, error) {
	conn := s.client.TestConnection(ctx)
	if !conn.Connected {
		return nil, fmt.Errorf("connection failed: %s", conn.Error)
	}
	s.logger.Info("connected to spreadsheet",
		zap.String("title", conn.SpreadsheetTitle),
		zap.String("spreadsheet_id", conn.SpreadsheetID),
	)

	results := make([]dto.WorksheetSetup, 0, 7)
	for _, ws := range s.Worksheets() {
		headers, err := s.client.InitializeWorksheet(ctx, ws)
		if err != nil {
			s.logger.Error("worksheet setup failed", zap.String("worksheet", ws), zap.Error(err))
			results = append(results, dto.WorksheetSetup{Worksheet: ws, Error: err.Error()})
			continue
		}
		s.logger.Info("worksheet ready", zap.String("worksheet", ws))
		results = append(results, dto.WorksheetSetup{Worksheet: ws, Headers: headers})
	}
	return results, nil
}

// Seed writes sample records into worksheets that are still empty and returns rows added per worksheet.
func (s *SheetsService) Seed(ctx context.Context, opts SeedOptions) (map[string]int, error) {
	if opts.AdminEmail == "" {
		opts.AdminEmail = "admin@rbcomputer.com"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin123"
	}
	hash, err := HashPassword(opts.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	today := s.now().UTC().Format(dateLayout)

	plan := []struct {
		worksheet string
		rows      []sheets.Row
	}{
		{s.names.Admins, []sheets.Row{{
			"Name": "System Administrator", "Email": opts.AdminEmail, "Password": hash,
			"Role": "super_admin", "Created Date": today, "Status": sheets.StatusActive,
		}}},
		{s.names.Courses, sampleCourses()},
		{s.names.Students, sampleStudents()},
		{s.names.Notices, sampleNotices(today)},
	}

	added := make(map[string]int, len(plan))
	for _, step := range plan {
		existing, err := s.client.GetAllData(ctx, step.worksheet)
		if err != nil {
			return added, fmt.Errorf("read %s: %w", step.worksheet, err)
		}
		if len(existing) > 0 {
			s.logger.Info("worksheet already has data, skipping seed", zap.String("worksheet", step.worksheet))
			continue
		}
		stored, err := s.client.BatchAdd(ctx, step.worksheet, step.rows)
		added[step.worksheet] = len(stored)
		if err != nil {
			return added, fmt.Errorf("seed %s: %w", step.worksheet, err)
		}
	}
	return added, nil
}
