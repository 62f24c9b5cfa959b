package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/internal/dto"
	"github.com/noah-isme/rbc-sheets-api/internal/middleware"
	"github.com/noah-isme/rbc-sheets-api/internal/models"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type fakeDashboardSrv struct {
	resp *dto.DashboardStats
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Overview(context.Context) (*dto.DashboardStats, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerStatsReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.DashboardStats{Students: models.StudentStats{SheetStats: sheets.Stats{Total: 4, Active: 3, Deleted: 1}}},
		hit:  true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	middleware.WithResponseMeta()(c)
	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get(middleware.CacheHeader))
	var body struct {
		Data dto.DashboardStats     `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Students.Active)
	assert.Equal(t, true, body.Meta["cache_hit"])
}

func TestDashboardHandlerStatsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("googleapi: Error 429: quota exceeded")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	handler.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}
