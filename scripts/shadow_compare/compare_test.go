package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeDiffIgnoresValues(t *testing.T) {
	legacy := []byte(`{"success":true,"data":[{"ID":"1","Status":"active"}],"pagination":{"current":1,"total":3}}`)
	candidate := []byte(`{"success":true,"data":[{"ID":"9","Status":"inactive"}],"pagination":{"current":2,"total":8}}`)

	assert.Empty(t, shapeDiff(legacy, candidate))
}

func TestShapeDiffReportsMissingAndKindChanges(t *testing.T) {
	legacy := []byte(`{"success":true,"data":{"total":3,"byStatus":{}},"message":"ok"}`)
	candidate := []byte(`{"success":true,"data":{"total":"3","byStatus":{}},"meta":{}}`)

	diffs := shapeDiff(legacy, candidate)
	assert.Equal(t, []string{
		"$.data.total: number vs string",
		"$.message: missing in go",
		"$.meta: missing in legacy",
	}, diffs)
}

func TestShapeDiffRejectsNonJSON(t *testing.T) {
	assert.Equal(t, []string{"go body is not JSON"}, shapeDiff([]byte(`{}`), []byte(`<html>`)))
}

func TestCompareTargetAgainstServers(t *testing.T) {
	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer legacy.Close()
	candidate := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Route not found"}`))
	}))
	defer candidate.Close()

	comp := compareTarget(context.Background(), http.DefaultClient, candidate.URL, legacy.URL, target{Path: "api/students", Critical: true})
	require.NoError(t, comp.Error)
	assert.Equal(t, http.StatusOK, comp.LegacyStatus)
	assert.Equal(t, http.StatusNotFound, comp.GoStatus)
	assert.False(t, comp.StatusMatch)
	assert.True(t, comp.breaking())

	comp = compareTarget(context.Background(), http.DefaultClient, candidate.URL, "http://127.0.0.1:1", target{Path: "/health"})
	require.Error(t, comp.Error)
	assert.False(t, comp.breaking())
	assert.True(t, comp.differs())
}
