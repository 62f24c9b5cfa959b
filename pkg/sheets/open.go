package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/rbc-sheets-api/pkg/config"
	"github.com/noah-isme/rbc-sheets-api/pkg/database"
)

// Open builds the backend named by cfg.Sheets.Backend. The returned func
// releases whatever the backend holds open and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() {}
	switch cfg.Sheets.Backend {
	case config.BackendGoogle:
		backend, err := NewGoogleBackend(ctx, cfg.Sheets)
		if err != nil {
			return nil, noop, err
		}
		return backend, noop, nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		release := func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close database", zap.Error(err))
			}
		}
		backend := NewPostgresBackend(db, cfg.Sheets.SpreadsheetID)
		if err := backend.Migrate(ctx); err != nil {
			release()
			return nil, noop, fmt.Errorf("migrate worksheet tables: %w", err)
		}
		return backend, release, nil
	case config.BackendMemory:
		logger.Warn("using in-memory sheets backend, data is lost on restart")
		return NewMemoryBackend(cfg.Sheets.SpreadsheetID, "RB Computer"), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown sheets backend %q", cfg.Sheets.Backend)
	}
}

// OpenClient opens the configured backend and wraps it in a Client using the
// default worksheet layout. A memory backend starts empty and lives only in
// this process, so its worksheets are initialised here.
func OpenClient(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Client, func(), error) {
	backend, release, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, release, err
	}
	if logger != nil {
		opts = append([]Option{WithLogger(logger)}, opts...)
	}
	client := NewClient(backend, DefaultSchema(cfg.Sheets.Worksheets), opts...)
	if cfg.Sheets.Backend == config.BackendMemory {
		for _, title := range client.Schema().Titles() {
			if _, err := client.InitializeWorksheet(ctx, title); err != nil {
				release()
				return nil, func() {}, err
			}
		}
	}
	return client, release, nil
}
