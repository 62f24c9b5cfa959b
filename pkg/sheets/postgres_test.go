package sheets

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresMock(t *testing.T) (*PostgresBackend, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresBackend(sqlx.NewDb(db, "sqlmock"), "local"), mock, func() { db.Close() }
}

func TestPostgresGetRowsFillsGaps(t *testing.T) {
	backend, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT row_number, cells FROM sheet_rows WHERE worksheet = $1 ORDER BY row_number")).
		WithArgs("Courses").
		WillReturnRows(sqlmock.NewRows([]string{"row_number", "cells"}).
			AddRow(1, "{ID,\"Course Name\"}").
			AddRow(3, "{C-2,Tally}"))

	grid, err := backend.GetRows(context.Background(), "Courses")
	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"ID", "Course Name"}, grid[0])
	assert.Nil(t, grid[1])
	assert.Equal(t, []string{"C-2", "Tally"}, grid[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendAndUpdate(t *testing.T) {
	backend, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO sheet_rows \\(worksheet, row_number, cells\\)\\s+SELECT").
		WithArgs("Fees", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("ON CONFLICT \\(worksheet, row_number\\) DO UPDATE").
		WithArgs("Fees", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, backend.AppendRow(ctx, "Fees", []string{"F-1", "S-1"}))
	require.NoError(t, backend.UpdateRow(ctx, "Fees", 2, []string{"F-1", "S-2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSheetsAndTitle(t *testing.T) {
	backend, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT current_database()")).
		WillReturnRows(sqlmock.NewRows([]string{"current_database"}).AddRow("rbcomputer_sheets"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sheet_worksheets (title) VALUES ($1) ON CONFLICT (title) DO NOTHING")).
		WithArgs("Students").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT title FROM sheet_worksheets")).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Students"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sheet_rows WHERE worksheet = $1 AND row_number >= $2")).
		WithArgs("Students", 2).
		WillReturnResult(sqlmock.NewResult(0, 4))

	ctx := context.Background()
	title, err := backend.SpreadsheetTitle(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rbcomputer_sheets", title)
	require.NoError(t, backend.AddSheet(ctx, "Students"))
	titles, err := backend.SheetTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Students"}, titles)
	require.NoError(t, backend.ClearRows(ctx, "Students", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
