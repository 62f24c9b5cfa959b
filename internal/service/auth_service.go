package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/rbc-sheets-api/internal/models"
	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

type adminRepository interface {
	All(ctx context.Context) ([]sheets.Row, error)
	Update(ctx context.Context, id string, patch sheets.Row) (sheets.Row, error)
}

type studentAccounts interface {
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	Create(ctx context.Context, input sheets.Row) (*models.Student, error)
}

// AuthConfig defines configuration for token issuance.
type AuthConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AuthService authenticates administrators against the Admins worksheet and students by registration.
type AuthService struct {
	admins    adminRepository
	students  studentAccounts
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(admins adminRepository, students studentAccounts, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &AuthService{admins: admins, students: students, validator: validate, logger: logger, config: config, now: time.Now}
}

// AdminLogin verifies the bcrypt password of an active admin and issues a token.
func (s *AuthService) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validateLogin(req); err != nil {
		return nil, err
	}

	rows, err := s.admins.All(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	row := findEqualFold(rows, "Email", req.Email)
	if row == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	admin, err := decodeRow[models.Admin](row)
	if err != nil {
		return nil, remoteError(err)
	}
	if admin.Status != "" && admin.Status != sheets.StatusActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	if _, err := s.admins.Update(ctx, admin.ID, sheets.Row{"Last Login": s.now().UTC().Format(time.RFC3339)}); err != nil {
		s.logger.Warn("failed to update last login", zap.String("admin_id", admin.ID), zap.Error(err))
	}

	return s.issue(models.UserInfo{ID: admin.ID, Email: admin.Email, Name: admin.Name, Role: models.RoleAdmin})
}

// StudentLogin issues a token for a registered, non-deleted student.
// The Students worksheet has no credential column, so the password is only required to be present.
func (s *AuthService) StudentLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validateLogin(req); err != nil {
		return nil, err
	}
	student, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if student.Status != "" && student.Status != sheets.StatusActive {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	return s.issue(models.UserInfo{ID: student.ID, Email: student.Email, Name: student.FullName(), Role: models.RoleStudent})
}

// RegisterStudent creates a student through the regular validation path.
func (s *AuthService) RegisterStudent(ctx context.Context, input sheets.Row) (*models.Student, error) {
	return s.students.Create(ctx, input)
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// HashPassword returns a bcrypt hash suitable for the Admins worksheet.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) validateLogin(req models.LoginRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return appErrors.Validation("Email and password are required")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	return nil
}

func (s *AuthService) issue(user models.UserInfo) (*models.LoginResponse, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	return &models.LoginResponse{
		Token:     signed,
		ExpiresIn: int64(s.config.Expiry.Seconds()),
		IssuedAt:  issuedAt,
		User:      user,
	}, nil
}
