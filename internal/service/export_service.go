package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/export"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type exportSource interface {
	Schema() *sheets.Schema
	GetAllData(ctx context.Context, worksheet string) ([]sheets.Row, error)
}

// ExportFile is a rendered worksheet ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders worksheets as CSV or PDF downloads.
type ExportService struct {
	source exportSource
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(source exportSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{source: source, logger: logger}
}

// Export renders the non-deleted rows of worksheet in format.
func (s *ExportService) Export(ctx context.Context, worksheet, format string) (*ExportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Validation(err.Error())
	}
	headers, ok := s.source.Schema().Headers(worksheet)
	if !ok {
		return nil, appErrors.NotFound(fmt.Sprintf("worksheet %s not found", worksheet))
	}
	rows, err := s.source.GetAllData(ctx, worksheet)
	if err != nil {
		return nil, remoteError(err)
	}

	data, err := renderer.Render(export.Table{Title: worksheet, Headers: headers, Rows: sheets.WithoutDeleted(rows)})
	if err != nil {
		s.logger.Error("export render failed", zap.String("worksheet", worksheet), zap.String("format", format), zap.Error(err))
		return nil, remoteError(err)
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s.%s", worksheet, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}
