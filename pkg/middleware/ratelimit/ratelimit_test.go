package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiterRefillsOverWindow(t *testing.T) {
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return current }

	ok, _ := l.Allow("ip")
	assert.True(t, ok)
	ok, _ = l.Allow("ip")
	assert.True(t, ok)
	ok, _ = l.Allow("ip")
	assert.False(t, ok)

	ok, _ = l.Allow("other")
	assert.True(t, ok)

	current = current.Add(30 * time.Second)
	ok, _ = l.Allow("ip")
	assert.True(t, ok)
}

func TestLimiterForgetsIdleClients(t *testing.T) {
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return current }

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		ok, _ := l.Allow(ip)
		assert.True(t, ok)
	}
	assert.Len(t, l.buckets, 3)

	current = current.Add(30 * time.Second)
	l.Allow("10.0.0.3")
	current = current.Add(45 * time.Second)
	l.Allow("10.0.0.4")

	assert.Len(t, l.buckets, 2)
	assert.Contains(t, l.buckets, "10.0.0.3")
	assert.Contains(t, l.buckets, "10.0.0.4")
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := New(1, time.Hour)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many requests")
}
