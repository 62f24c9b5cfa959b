package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics http.Handler
}

// NewMetricsHandler constructs a metrics handler around a Prometheus HTTP handler.
func NewMetricsHandler(metrics http.Handler) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
