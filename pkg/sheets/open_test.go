package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/pkg/config"
)

func TestOpenMemoryBackend(t *testing.T) {
	cfg := &config.Config{Sheets: config.SheetsConfig{Backend: config.BackendMemory, SpreadsheetID: "local"}}

	backend, release, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, release)
	defer release()
	assert.Equal(t, "local", backend.SpreadsheetID())
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{Sheets: config.SheetsConfig{Backend: "excel"}}

	_, release, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown sheets backend "excel"`)
	release()
}

func TestOpenClientInitialisesMemoryWorksheets(t *testing.T) {
	cfg := &config.Config{Sheets: config.SheetsConfig{
		Backend:       config.BackendMemory,
		SpreadsheetID: "local",
		Worksheets: config.WorksheetNames{
			Students: "Students", Courses: "Courses", Fees: "Fees", Attendance: "Attendance",
			Notices: "Notices", Certificates: "Certificates", Admins: "Admins",
		},
	}}
	ctx := context.Background()

	client, release, err := OpenClient(ctx, cfg, nil)
	require.NoError(t, err)
	defer release()

	for _, title := range client.Schema().Titles() {
		rows, err := client.GetAllData(ctx, title)
		require.NoError(t, err, title)
		assert.Empty(t, rows, title)
	}
	stored, err := client.AddRow(ctx, "Students", Row{"First Name": "Alice", "Email": "alice@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored[HeaderID])
}

func TestOpenClientUnknownBackend(t *testing.T) {
	_, release, err := OpenClient(context.Background(), &config.Config{Sheets: config.SheetsConfig{Backend: "excel"}}, nil)
	require.Error(t, err)
	release()
}
