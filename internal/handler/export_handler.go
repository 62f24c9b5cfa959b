package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/service"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, worksheet, format string) (*service.ExportFile, error)
}

// ExportHandler streams worksheet downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Worksheet returns a handler exporting worksheet in the ?format= requested (csv by default).
// @Summary Export worksheet
// @Tags Export
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /students/export [get]
// @Router /courses/export [get]
// @Router /fees/export [get]
func (h *ExportHandler) Worksheet(worksheet string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.exports.Export(c.Request.Context(), worksheet, c.Query("format"))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		c.Data(http.StatusOK, file.ContentType, file.Data)
	}
}
