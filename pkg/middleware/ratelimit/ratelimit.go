package ratelimit

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
)

// Limiter is an in-memory per-key token bucket. Buckets refill continuously
// so that capacity tokens become available again over one window.
type Limiter struct {
	capacity float64
	window   time.Duration
	now      func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// New creates a limiter allowing capacity requests per window.
func New(capacity int, window time.Duration) *Limiter {
	if capacity <= 0 {
		capacity = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Limiter{
		capacity: float64(capacity),
		window:   window,
		now:      time.Now,
		buckets:  make(map[string]*bucket),
	}
}

// Allow consumes one token for key and reports whether the request may proceed
// along with the remaining whole tokens.
func (l *Limiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.last)
	if elapsed > 0 {
		b.tokens += elapsed.Seconds() * l.capacity / l.window.Seconds()
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// sweep drops buckets idle for a full window, which are back at capacity.
// It runs at most once per window.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.last) >= l.window {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Middleware enforces the limit per client IP.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "unknown"
		}
		ok, remaining := l.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(int(l.capacity)))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
