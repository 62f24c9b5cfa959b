package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(context.Context, string, interface{}) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func (brokenCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func (brokenCacheRepo) DeleteByPattern(context.Context, string) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func TestCacheServiceRecordsHitsAndMisses(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCacheRepo(), metrics, 0, nil, true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "dash:overview", &out))
	svc.Set(ctx, "dash:overview", map[string]int{"total": 3}, 0)
	require.True(t, svc.Get(ctx, "dash:overview", &out))
	assert.Equal(t, 3, out["total"])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheLookups.WithLabelValues("miss")))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)
	ctx := context.Background()

	svc.Set(ctx, "dash:overview", 1, 0)
	assert.Empty(t, repo.entries)
	assert.NoError(t, svc.Invalidate(ctx, "dash:*"))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(ctx, "dash:overview", new(int)))
}

func TestCacheServiceSwallowsReadFailures(t *testing.T) {
	svc := NewCacheService(brokenCacheRepo{}, nil, time.Minute, nil, true)
	ctx := context.Background()

	assert.False(t, svc.Get(ctx, "dash:overview", new(int)))
	svc.Set(ctx, "dash:overview", 1, 0)
	assert.Error(t, svc.Invalidate(ctx, "dash:*"))
}

func TestMetricsHandlerExposesSheetCalls(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveSheetCall("get_rows", "Students", 120*time.Millisecond, nil)
	metrics.ObserveSheetCall("append_row", "Students", time.Second, errors.New("quota"))
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/students", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.sheetErrors.WithLabelValues("append_row", "Students")))

	var nilMetrics *MetricsService
	nilMetrics.ObserveSheetCall("get_rows", "Students", time.Second, nil)
	rec = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
