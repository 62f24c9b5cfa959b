package dto

import (
	"time"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
)

// DashboardRecent lists the latest activity shown on the admin dashboard.
type DashboardRecent struct {
	Students []models.Student `json:"students"`
	Courses  []models.Course  `json:"courses"`
}

// DashboardStats is the payload of GET /api/dashboard/stats.
type DashboardStats struct {
	Students    models.StudentStats `json:"students"`
	Courses     models.CourseStats  `json:"courses"`
	Fees        *models.FeeStats    `json:"fees,omitempty"`
	Recent      DashboardRecent     `json:"recent"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
