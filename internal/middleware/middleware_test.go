package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("signature is invalid"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return s.claims, nil
}

type recordedRequest struct {
	method string
	path   string
	status int
}

type recordingObserver struct {
	requests []recordedRequest
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.requests = append(r.requests, recordedRequest{method, path, status})
}

func newRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middlewares...)
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.GET("/api/students/:id", handler)
	router.DELETE("/api/students/:id", handler)
	return router
}

func serve(router *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresBearerToken(t *testing.T) {
	validator := stubValidator{claims: &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}}
	router := newRouter(JWT(validator))

	cases := []struct {
		name   string
		auth   string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"bad token", "Bearer forged", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, "/api/students/s1", tc.auth)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	validator := stubValidator{claims: &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}}
	var seen *models.JWTClaims
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", OptionalJWT(validator), func(c *gin.Context) {
		seen, _ = CurrentUser(c)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", "Bearer forged").Code)
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", "Bearer good").Code)
	require.NotNil(t, seen)
	assert.Equal(t, "a1", seen.UserID)
}

func TestRBACAllowsRolesAndSelf(t *testing.T) {
	student := stubValidator{claims: &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}}
	admin := stubValidator{claims: &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}}

	studentRouter := newRouter(JWT(student), RBAC(string(models.RoleAdmin), SelfAccess))
	assert.Equal(t, http.StatusNoContent, serve(studentRouter, http.MethodGet, "/api/students/s1", "Bearer good").Code)
	rec := serve(studentRouter, http.MethodGet, "/api/students/s2", "Bearer good")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin access required")

	adminOnly := newRouter(JWT(admin), RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, serve(adminOnly, http.MethodDelete, "/api/students/s2", "Bearer good").Code)

	noClaims := newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, serve(noClaims, http.MethodDelete, "/api/students/s2", "").Code)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}
	router := newRouter(Metrics(observer))

	serve(router, http.MethodGet, "/api/students/s1", "")
	serve(router, http.MethodGet, "/nowhere", "")

	require.Len(t, observer.requests, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/api/students/:id", http.StatusNoContent}, observer.requests[0])
	assert.Equal(t, "unmatched", observer.requests[1].path)
	assert.Equal(t, http.StatusNotFound, observer.requests[1].status)
}

func TestResponseMetaRecordsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/api/dashboard/stats", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	rec := serve(router, http.MethodGet, "/api/dashboard/stats", "")
	assert.Equal(t, "HIT", rec.Header().Get(CacheHeader))
	require.NotNil(t, meta)
	assert.Equal(t, true, meta[cacheHitKey])
}
