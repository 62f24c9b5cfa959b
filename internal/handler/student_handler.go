package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, sheets.Pagination, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, input sheets.Row) (*models.Student, error)
	Update(ctx context.Context, id string, patch sheets.Row) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.StudentStats, error)
	BulkImport(ctx context.Context, rows []sheets.Row) models.BulkImportResult[models.Student]
}

type studentFees interface {
	ByStudent(ctx context.Context, studentID string, page, limit int) ([]models.Fee, sheets.Pagination, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	fees     studentFees
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, fees studentFees) *StudentHandler {
	return &StudentHandler{students: students, fees: fees}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name, email, phone or course"
// @Param status query string false "Filter by status"
// @Param course query string false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	page, limit := pageQuery(c)
	filter := models.StudentFilter{
		Search: queryString(c, "search"),
		Status: queryString(c, "status"),
		Course: queryString(c, "course"),
		Page:   page,
		Limit:  limit,
	}
	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, &pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.Student true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Student created successfully", student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.Student true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student updated successfully", student)
}

// Delete godoc
// @Summary Soft-delete student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Student deleted successfully", nil)
}

// Stats godoc
// @Summary Student statistics
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/stats/overview [get]
func (h *StudentHandler) Stats(c *gin.Context) {
	stats, err := h.students.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// BulkImport godoc
// @Summary Import many students
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body object true "{students: [...]}"
// @Success 200 {object} response.Envelope
// @Router /students/bulk-import [post]
func (h *StudentHandler) BulkImport(c *gin.Context) {
	rows, err := bindRows(c, "students", "Students")
	if err != nil {
		response.Error(c, err)
		return
	}
	result := h.students.BulkImport(c.Request.Context(), rows)
	response.Message(c, http.StatusOK, bulkMessage(result.Imported, result.Errors), result)
}

// Fees godoc
// @Summary Fees of one student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/fees [get]
func (h *StudentHandler) Fees(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.students.Get(ctx, id); err != nil {
		response.Error(c, err)
		return
	}
	page, limit := pageQuery(c)
	fees, pagination, err := h.fees.ByStudent(ctx, id, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, &pagination)
}
