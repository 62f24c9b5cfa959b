package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

func newStudentsRepo(t *testing.T) *WorksheetRepository {
	t.Helper()
	schema := sheets.NewSchema()
	schema.Register("Students", sheets.StudentHeaders)
	client := sheets.NewClient(sheets.NewMemoryBackend("test", "Test"), schema)
	_, err := client.InitializeWorksheet(context.Background(), "Students")
	require.NoError(t, err)
	return NewWorksheetRepository(client, "Students")
}

func TestWorksheetRepositoryLifecycle(t *testing.T) {
	repo := newStudentsRepo(t)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, sheets.Row{"First Name": "Asha", "Email": "asha@example.com", "Status": "active"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, stored.ID())
	require.NoError(t, err)
	assert.Equal(t, "Asha", found["First Name"])

	_, err = repo.Update(ctx, stored.ID(), sheets.Row{"Phone": "98765"})
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, stored.ID()))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "98765", all[0]["Phone"])

	active, err := repo.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, "Students", repo.Worksheet())
	assert.Equal(t, sheets.StudentHeaders, repo.Headers())
}

func TestWorksheetRepositoryFindMissing(t *testing.T) {
	repo := newStudentsRepo(t)

	row, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, row)
}
