package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	"github.com/noah-isme/rbc-sheets-api/internal/repository"
	"github.com/noah-isme/rbc-sheets-api/pkg/config"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

func aliceRow() sheets.Row {
	return sheets.Row{
		"First Name": "Alice",
		"Last Name":  "Johnson",
		"Email":      "alice@example.com",
		"Course":     "Basic Computer Course",
	}
}

func TestStudentCreateAppliesDefaults(t *testing.T) {
	cache := &recordingInvalidator{}
	svc := newTestStudents(t, newTestClient(t, true), cache)

	student, err := svc.Create(context.Background(), aliceRow())
	require.NoError(t, err)
	assert.Equal(t, "id-1", student.ID)
	assert.Equal(t, sheets.StatusActive, student.Status)
	assert.Equal(t, "2024-03-01", student.EnrollmentDate)
	assert.Equal(t, "2024-03-01T08:30:00Z", student.CreatedAt)
	assert.Equal(t, []string{dashboardCachePattern}, cache.patterns)
}

func TestStudentCreateIgnoresClientTimestampsAndID(t *testing.T) {
	svc := newTestStudents(t, newTestClient(t, true), nil)

	row := aliceRow()
	row["ID"] = "forged"
	row["Created At"] = "1999-01-01T00:00:00Z"
	student, err := svc.Create(context.Background(), row)
	require.NoError(t, err)
	assert.Equal(t, "id-1", student.ID)
	assert.Equal(t, "2024-03-01T08:30:00Z", student.CreatedAt)
}

func TestStudentCreateRequiresFields(t *testing.T) {
	svc := newTestStudents(t, newTestClient(t, true), nil)

	_, err := svc.Create(context.Background(), sheets.Row{"First Name": "Alice", "Last Name": "Johnson"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Email is required", err.Error())
}

func TestStudentCreateRejectsDuplicateEmailUnlessDeleted(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudents(t, newTestClient(t, true), nil)

	first, err := svc.Create(ctx, aliceRow())
	require.NoError(t, err)

	dup := aliceRow()
	dup["Email"] = "ALICE@example.com"
	_, err = svc.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, msgStudentDuplicate, err.Error())

	require.NoError(t, svc.Delete(ctx, first.ID))
	again, err := svc.Create(ctx, dup)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestStudentCreateRejectsDeletedStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudents(t, newTestClient(t, true), nil)

	row := aliceRow()
	row["Status"] = "Deleted"
	_, err := svc.Create(ctx, row)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestStudentUpdateFindsDuplicateBehindFirstMatch(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, true)
	svc := newTestStudents(t, client, nil)
	for i := 0; i < 2; i++ {
		_, err := client.AddRow(ctx, testWorksheets.Students, aliceRow())
		require.NoError(t, err)
	}

	_, err := svc.Update(ctx, "id-1", sheets.Row{"Email": "ALICE@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	require.NoError(t, svc.Delete(ctx, "id-2"))
	updated, err := svc.Update(ctx, "id-1", sheets.Row{"Email": "ALICE@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ALICE@example.com", updated.Email)
}

func TestStudentServiceOverOpenedMemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Sheets: config.SheetsConfig{Backend: config.BackendMemory, SpreadsheetID: "local", Worksheets: testWorksheets}}
	client, release, err := sheets.OpenClient(ctx, cfg, nil)
	require.NoError(t, err)
	defer release()
	svc := NewStudentService(repository.NewWorksheetRepository(client, testWorksheets.Students), nil, nil)

	created, err := svc.Create(ctx, aliceRow())
	require.NoError(t, err)
	students, pagination, err := svc.List(ctx, models.StudentFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, created.ID, students[0].ID)
	assert.Equal(t, 1, pagination.Total)
}

func TestStudentUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudents(t, newTestClient(t, true), nil)

	alice, err := svc.Create(ctx, aliceRow())
	require.NoError(t, err)
	bob := aliceRow()
	bob["First Name"] = "Bob"
	bob["Email"] = "bob@example.com"
	_, err = svc.Create(ctx, bob)
	require.NoError(t, err)

	t.Run("merges fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, alice.ID, sheets.Row{"Phone": "+1-555-0101", "Created At": "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "+1-555-0101", updated.Phone)
		assert.Equal(t, "Alice", updated.FirstName)
		assert.Equal(t, alice.CreatedAt, updated.CreatedAt)
	})

	t.Run("email taken by another student", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, sheets.Row{"Email": "bob@example.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrConflict))
	})

	t.Run("blank email", func(t *testing.T) {
		_, err := svc.Update(ctx, alice.ID, sheets.Row{"Email": ""})
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", sheets.Row{"Phone": "1"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, appErrors.ErrNotFound))
		assert.Equal(t, msgStudentNotFound, err.Error())
	})
}

func TestStudentDeleteThenStats(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudents(t, newTestClient(t, true), nil)

	alice, err := svc.Create(ctx, aliceRow())
	require.NoError(t, err)
	bob := aliceRow()
	bob["Email"] = "bob@example.com"
	bob["Course"] = ""
	_, err = svc.Create(ctx, bob)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice.ID))

	_, err = svc.Get(ctx, alice.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, alice.ID), appErrors.ErrNotFound))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, map[string]int{"active": 1}, stats.ByStatus)
	assert.Equal(t, map[string]int{"Not Assigned": 1}, stats.ByCourse)
}

func TestStudentListSearchAndPagination(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudents(t, newTestClient(t, true), nil)

	seed := []sheets.Row{
		{"First Name": "Alice", "Last Name": "Johnson", "Email": "alice@example.com", "Course": "Basic Computer Course"},
		{"First Name": "Bob", "Last Name": "Smith", "Email": "bob@example.com", "Course": "Web Development"},
		{"First Name": "Carol", "Last Name": "Compton", "Email": "carol@example.com", "Course": "Tally"},
	}
	for _, row := range seed {
		_, err := svc.Create(ctx, row)
		require.NoError(t, err)
	}

	found, pagination, err := svc.Search(ctx, "comp", 1, 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Alice", found[0].FirstName)
	assert.Equal(t, "Carol", found[1].FirstName)
	assert.Equal(t, 2, pagination.Total)

	page, pagination, err := svc.List(ctx, models.StudentFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, sheets.Pagination{Current: 2, Pages: 2, Total: 3, Limit: 2}, pagination)

	byCourse, _, err := svc.ByCourse(ctx, "web", 1, 10)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "Bob", byCourse[0].FirstName)
}

func TestStudentRecentOrdersByEnrollmentDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestStudents(t, newTestClient(t, true), nil)

	for _, row := range []sheets.Row{
		{"First Name": "Old", "Last Name": "One", "Email": "old@example.com", "Enrollment Date": "2023-01-10"},
		{"First Name": "New", "Last Name": "One", "Email": "new@example.com", "Enrollment Date": "2024-02-20"},
		{"First Name": "Mid", "Last Name": "One", "Email": "mid@example.com", "Enrollment Date": "2023-09-01"},
	} {
		_, err := svc.Create(ctx, row)
		require.NoError(t, err)
	}

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "New", recent[0].FirstName)
	assert.Equal(t, "Mid", recent[1].FirstName)
}

func TestStudentBulkImportReportsRowErrors(t *testing.T) {
	svc := newTestStudents(t, newTestClient(t, true), nil)

	result := svc.BulkImport(context.Background(), []sheets.Row{
		aliceRow(),
		{"First Name": "NoEmail", "Last Name": "Student"},
	})
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.Results, 1)
	require.Len(t, result.ErrorDetails, 1)
	assert.Equal(t, 2, result.ErrorDetails[0].Row)
	assert.Equal(t, "Email is required", result.ErrorDetails[0].Error)
	assert.Equal(t, "NoEmail", result.ErrorDetails[0].Data["First Name"])
}

func TestStudentServiceSurfacesBackendErrors(t *testing.T) {
	// worksheets were never created, so every read fails remotely
	svc := newTestStudents(t, newTestClient(t, false), nil)

	_, err := svc.Create(context.Background(), aliceRow())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Contains(t, err.Error(), "unable to parse range")
}
