package dto

import (
	"time"

	"github.com/noah-isme/rbc-sheets-api/pkg/config"
)

// HealthDatabase describes the datastore in the health payload.
type HealthDatabase struct {
	Type          string `json:"type"`
	Status        string `json:"status"`
	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Database    HealthDatabase `json:"database"`
	Environment string         `json:"environment"`
}

// SheetsStatus is the payload of GET /api/sheets/status.
type SheetsStatus struct {
	Connected        bool                   `json:"connected"`
	SpreadsheetID    string                 `json:"spreadsheetId,omitempty"`
	SpreadsheetTitle string                 `json:"spreadsheetTitle,omitempty"`
	Sheets           *config.WorksheetNames `json:"sheets,omitempty"`
	Error            string                 `json:"error,omitempty"`
	Timestamp        time.Time              `json:"timestamp"`
}

// WorksheetSetup reports the outcome of initialising one worksheet.
type WorksheetSetup struct {
	Worksheet string   `json:"worksheet"`
	Headers   []string `json:"headers,omitempty"`
	Error     string   `json:"error,omitempty"`
}
