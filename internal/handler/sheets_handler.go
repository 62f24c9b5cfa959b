package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/dto"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
)

type sheetsService interface {
	Status(ctx context.Context) dto.SheetsStatus
	Health(ctx context.Context) (dto.HealthResponse, bool)
}

// SheetsHandler reports service and spreadsheet health.
type SheetsHandler struct {
	sheets sheetsService
}

// NewSheetsHandler constructs SheetsHandler.
func NewSheetsHandler(sheets sheetsService) *SheetsHandler {
	return &SheetsHandler{sheets: sheets}
}

// Root godoc
// @Summary Welcome banner
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *SheetsHandler) Root(c *gin.Context) {
	response.Message(c, http.StatusOK, "Welcome to the RB Computer Backend API!", nil)
}

// Health godoc
// @Summary Liveness with datastore connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *SheetsHandler) Health(c *gin.Context) {
	health, _ := h.sheets.Health(c.Request.Context())
	c.JSON(http.StatusOK, health)
}

// Ready godoc
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (h *SheetsHandler) Ready(c *gin.Context) {
	if _, ok := h.sheets.Health(c.Request.Context()); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Status godoc
// @Summary Spreadsheet connection status
// @Tags Health
// @Produce json
// @Success 200 {object} dto.SheetsStatus
// @Failure 500 {object} dto.SheetsStatus
// @Router /api/sheets/status [get]
func (h *SheetsHandler) Status(c *gin.Context) {
	status := h.sheets.Status(c.Request.Context())
	if !status.Connected {
		c.JSON(http.StatusInternalServerError, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// NotFound answers unmatched routes.
func (h *SheetsHandler) NotFound(c *gin.Context) {
	response.Error(c, appErrors.NotFound("Route not found"))
}
