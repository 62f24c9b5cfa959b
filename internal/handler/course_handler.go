package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, sheets.Pagination, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, input sheets.Row) (*models.Course, error)
	Update(ctx context.Context, id string, patch sheets.Row) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.CourseStats, error)
	SelectOptions(ctx context.Context) ([]models.CourseOption, error)
	BulkImport(ctx context.Context, rows []sheets.Row) models.BulkImportResult[models.Course]
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Search by name, description or instructor"
// @Param status query string false "Filter by status"
// @Param instructor query string false "Filter by instructor"
// @Param minFee query number false "Minimum fee"
// @Param maxFee query number false "Maximum fee"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	minFee, err := queryFloat(c, "minFee")
	if err != nil {
		response.Error(c, err)
		return
	}
	maxFee, err := queryFloat(c, "maxFee")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, limit := pageQuery(c)
	filter := models.CourseFilter{
		Search:     queryString(c, "search"),
		Status:     queryString(c, "status"),
		Instructor: queryString(c, "instructor"),
		MinFee:     minFee,
		MaxFee:     maxFee,
		Page:       page,
		Limit:      limit,
	}
	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, &pagination)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.Course true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Create(c.Request.Context(), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Course created successfully", course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.Course true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course updated successfully", course)
}

// Delete godoc
// @Summary Soft-delete course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course deleted successfully", nil)
}

// Stats godoc
// @Summary Course statistics
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/stats/overview [get]
func (h *CourseHandler) Stats(c *gin.Context) {
	stats, err := h.courses.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Options godoc
// @Summary Active courses for select inputs
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/select/options [get]
func (h *CourseHandler) Options(c *gin.Context) {
	options, err := h.courses.SelectOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// BulkImport godoc
// @Summary Import many courses
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body object true "{courses: [...]}"
// @Success 200 {object} response.Envelope
// @Router /courses/bulk-import [post]
func (h *CourseHandler) BulkImport(c *gin.Context) {
	rows, err := bindRows(c, "courses", "Courses")
	if err != nil {
		response.Error(c, err)
		return
	}
	result := h.courses.BulkImport(c.Request.Context(), rows)
	response.Message(c, http.StatusOK, bulkMessage(result.Imported, result.Errors), result)
}
