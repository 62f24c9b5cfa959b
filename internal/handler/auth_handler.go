package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rbc-sheets-api/internal/middleware"
	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/response"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type authService interface {
	AdminLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	StudentLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	RegisterStudent(ctx context.Context, input sheets.Row) (*models.Student, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// AdminLogin godoc
// @Summary Authenticate administrator
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.service.AdminLogin)
}

// StudentLogin godoc
// @Summary Authenticate student
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/student/login [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	h.login(c, h.service.StudentLogin)
}

func (h *AuthHandler) login(c *gin.Context, fn func(context.Context, models.LoginRequest) (*models.LoginResponse, error)) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	res, err := fn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Login successful", res)
}

// Register godoc
// @Summary Register student
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.Student true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/student/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	row, err := bindRow(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.service.RegisterStudent(c.Request.Context(), row)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Registration successful", student)
}

// CurrentUser godoc
// @Summary Current user from bearer token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:    claims.UserID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil)
}

// Logout godoc
// @Summary Logout
// @Description Tokens are stateless; clients discard them.
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Message(c, http.StatusOK, "Logged out successfully", nil)
}
