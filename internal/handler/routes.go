package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/middleware"
	"github.com/noah-isme/rbc-sheets-api/internal/models"
	"github.com/noah-isme/rbc-sheets-api/pkg/config"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Sheets    *SheetsHandler
	Auth      *AuthHandler
	Students  *StudentHandler
	Courses   *CourseHandler
	Fees      *FeeHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Metrics   *MetricsHandler
}

// RouteOptions controls prefixing and token enforcement.
type RouteOptions struct {
	APIPrefix  string
	Tokens     middleware.TokenValidator
	Enforce    bool
	Worksheets config.WorksheetNames
}

// RegisterRoutes mounts the API on r. With Enforce set, writes, exports and the
// dashboard require an admin token.
func RegisterRoutes(r *gin.Engine, h Handlers, opts RouteOptions) {
	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api"
	}

	r.GET("/", h.Sheets.Root)
	r.GET("/health", h.Sheets.Health)
	r.GET("/ready", h.Sheets.Ready)
	if h.Metrics != nil {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	r.NoRoute(h.Sheets.NotFound)

	api := r.Group(prefix)
	api.GET("/sheets/status", h.Sheets.Status)

	admin := []gin.HandlerFunc{}
	if opts.Enforce {
		admin = append(admin, middleware.JWT(opts.Tokens), middleware.RequireRoles(models.RoleAdmin))
	}
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), handler)
	}

	auth := api.Group("/auth")
	auth.POST("/student/register", h.Auth.Register)
	auth.POST("/student/login", h.Auth.StudentLogin)
	auth.POST("/admin/login", h.Auth.AdminLogin)
	auth.GET("/user", middleware.JWT(opts.Tokens), h.Auth.CurrentUser)
	auth.POST("/logout", h.Auth.Logout)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", guarded(h.Students.Create)...)
	students.GET("/stats/overview", h.Students.Stats)
	students.POST("/bulk-import", guarded(h.Students.BulkImport)...)
	students.GET("/export", guarded(h.Export.Worksheet(opts.Worksheets.Students))...)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", guarded(h.Students.Update)...)
	students.DELETE("/:id", guarded(h.Students.Delete)...)
	students.GET("/:id/fees", h.Students.Fees)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", guarded(h.Courses.Create)...)
	courses.GET("/stats/overview", h.Courses.Stats)
	courses.GET("/select/options", h.Courses.Options)
	courses.POST("/bulk-import", guarded(h.Courses.BulkImport)...)
	courses.GET("/export", guarded(h.Export.Worksheet(opts.Worksheets.Courses))...)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", guarded(h.Courses.Update)...)
	courses.DELETE("/:id", guarded(h.Courses.Delete)...)

	fees := api.Group("/fees")
	fees.GET("", h.Fees.List)
	fees.POST("", guarded(h.Fees.Create)...)
	fees.GET("/pending", h.Fees.Pending)
	fees.GET("/stats/overview", h.Fees.Stats)
	fees.POST("/bulk-import", guarded(h.Fees.BulkImport)...)
	fees.GET("/export", guarded(h.Export.Worksheet(opts.Worksheets.Fees))...)
	fees.GET("/:id", h.Fees.Get)
	fees.PUT("/:id", guarded(h.Fees.Update)...)
	fees.DELETE("/:id", guarded(h.Fees.Delete)...)
	fees.POST("/:id/pay", guarded(h.Fees.Pay)...)

	api.GET("/dashboard/stats", guarded(h.Dashboard.Stats)...)
}
