package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/noah-isme/rbc-sheets-api/pkg/config"
)

const valueInputRaw = "RAW"

// GoogleBackend talks to the Google Sheets API v4.
type GoogleBackend struct {
	id  string
	svc *gsheets.Service
}

// NewGoogleBackend authenticates with the service account described in cfg.
// When no private key is configured, application default credentials are used.
func NewGoogleBackend(ctx context.Context, cfg config.SheetsConfig) (*GoogleBackend, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("GOOGLE_SPREADSHEET_ID is required")
	}

	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if cfg.PrivateKey != "" {
		creds, err := serviceAccountJSON(cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleBackend{id: cfg.SpreadsheetID, svc: svc}, nil
}

func serviceAccountJSON(cfg config.SheetsConfig) ([]byte, error) {
	if cfg.ClientEmail == "" {
		return nil, errors.New("GOOGLE_CLIENT_EMAIL is required with GOOGLE_PRIVATE_KEY")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  cfg.PrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

func (g *GoogleBackend) SpreadsheetID() string { return g.id }

func (g *GoogleBackend) SpreadsheetTitle(ctx context.Context) (string, error) {
	resp, err := g.svc.Spreadsheets.Get(g.id).Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if resp.Properties == nil {
		return "", nil
	}
	return resp.Properties.Title, nil
}

func (g *GoogleBackend) SheetTitles(ctx context.Context) ([]string, error) {
	resp, err := g.svc.Spreadsheets.Get(g.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (g *GoogleBackend) AddSheet(ctx context.Context, title string) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: title}},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.id, req).Context(ctx).Do()
	return err
}

func (g *GoogleBackend) GetRows(ctx context.Context, title string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.id, a1(title, "A:Z")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		cells := make([]string, len(values))
		for j, v := range values {
			cells[j] = cast.ToString(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (g *GoogleBackend) AppendRow(ctx context.Context, title string, values []string) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.id, a1(title, "A:A"), valueRange(values)).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleBackend) UpdateRow(ctx context.Context, title string, rowNumber int, values []string) error {
	rng := a1(title, fmt.Sprintf("A%d:Z%d", rowNumber, rowNumber))
	_, err := g.svc.Spreadsheets.Values.Update(g.id, rng, valueRange(values)).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleBackend) ClearRows(ctx context.Context, title string, fromRow int) error {
	rng := a1(title, fmt.Sprintf("A%d:Z", fromRow))
	_, err := g.svc.Spreadsheets.Values.Clear(g.id, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// a1 builds an A1 range, quoting the sheet title.
func a1(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}

func valueRange(values []string) *gsheets.ValueRange {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &gsheets.ValueRange{Values: [][]interface{}{row}}
}
