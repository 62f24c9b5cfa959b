package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type feeService interface {
	List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, sheets.Pagination, error)
	Pending(ctx context.Context, page, limit int) ([]models.Fee, sheets.Pagination, error)
	Get(ctx context.Context, id string) (*models.Fee, error)
	Create(ctx context.Context, input sheets.Row) (*models.Fee, error)
	Update(ctx context.Context, id string, patch sheets.Row) (*models.Fee, error)
	Delete(ctx context.Context, id string) error
	MarkAsPaid(ctx context.Context, id string, req models.PaymentRequest) (*models.Fee, error)
	Stats(ctx context.Context) (*models.FeeStats, error)
	BulkImport(ctx context.Context, rows []sheets.Row) models.BulkImportResult[models.Fee]
}

// FeeHandler exposes fee endpoints.
type FeeHandler struct {
	fees feeService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees feeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// List godoc
// @Summary List fee records
// @Tags Fees
// @Produce json
// @Param search query string false "Search"
// @Param status query string false "pending, paid, overdue or partial"
// @Param studentId query string false "Filter by student"
// @Param courseId query string false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	page, limit := pageQuery(c)
	filter := models.FeeFilter{
		Search:    queryString(c, "search"),
		Status:    queryString(c, "status"),
		StudentID: queryString(c, "studentId"),
		CourseID:  queryString(c, "courseId"),
		Page:      page,
		Limit:     limit,
	}
	fees, pagination, err := h.fees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, &pagination)
}

// Pending godoc
// @Summary Fees awaiting payment
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fees/pending [get]
func (h *FeeHandler) Pending(c *gin.Context) {
	page, limit := pageQuery(c)
	fees, pagination, err := h.fees.Pending(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, &pagination)
}

// Get godoc
// @Summary Get fee record
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Envelope
// @Router /fees/{id} [get]
func (h *FeeHandler) Get(c *gin.Context) {
	fee, err := h.fees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fee, nil)
}

// Create godoc
// @Summary Create fee record
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body models.Fee true "Fee payload"
// @Success 201 {object} response.Envelope
// @Router /fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	fee, err := h.fees.Create(c.Request.Context(), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Fee created successfully", fee)
}

// Update godoc
// @Summary Update fee record
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param payload body models.Fee true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /fees/{id} [put]
func (h *FeeHandler) Update(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	fee, err := h.fees.Update(c.Request.Context(), c.Param("id"), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Fee updated successfully", fee)
}

// Delete godoc
// @Summary Soft-delete fee record
// @Tags Fees
// @Produce json
// @Param id path string true "Fee ID"
// @Success 200 {object} response.Envelope
// @Router /fees/{id} [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
	if err := h.fees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Fee deleted successfully", nil)
}

// Pay godoc
// @Summary Mark fee as paid
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param payload body models.PaymentRequest false "Payment details"
// @Success 200 {object} response.Envelope
// @Router /fees/{id}/pay [post]
func (h *FeeHandler) Pay(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	fee, err := h.fees.MarkAsPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Fee marked as paid", fee)
}

// Stats godoc
// @Summary Fee statistics
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fees/stats/overview [get]
func (h *FeeHandler) Stats(c *gin.Context) {
	stats, err := h.fees.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// BulkImport godoc
// @Summary Import many fee records
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body object true "{fees: [...]}"
// @Success 200 {object} response.Envelope
// @Router /fees/bulk-import [post]
func (h *FeeHandler) BulkImport(c *gin.Context) {
	rows, err := bindRows(c, "fees", "Fees")
	if err != nil {
		response.Error(c, err)
		return
	}
	result := h.fees.BulkImport(c.Request.Context(), rows)
	response.Message(c, http.StatusOK, bulkMessage(result.Imported, result.Errors), result)
}
