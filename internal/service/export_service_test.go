package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
)

func TestExportCSVSkipsDeletedRows(t *testing.T) {
	client := newTestClient(t, true)
	students := newTestStudents(t, client, nil)
	ctx := context.Background()

	alice, err := students.Create(ctx, aliceRow())
	require.NoError(t, err)
	bob := aliceRow()
	bob["First Name"] = "Bob"
	bob["Email"] = "bob@example.com"
	_, err = students.Create(ctx, bob)
	require.NoError(t, err)
	require.NoError(t, students.Delete(ctx, alice.ID))

	svc := NewExportService(client, nil)
	file, err := svc.Export(ctx, "Students", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Students.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "First Name", records[0][1])
	assert.Equal(t, "Bob", records[1][1])
}

func TestExportPDF(t *testing.T) {
	client := newTestClient(t, true)
	svc := NewExportService(client, nil)

	file, err := svc.Export(context.Background(), "courses", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportRejectsUnknownInputs(t *testing.T) {
	svc := NewExportService(newTestClient(t, true), nil)

	_, err := svc.Export(context.Background(), "Students", "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(context.Background(), "Payroll", "csv")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
