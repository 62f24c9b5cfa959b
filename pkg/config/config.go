package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Sheet backend identifiers accepted by SHEETS_BACKEND.
const (
	BackendGoogle   = "google"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheets    SheetsConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	RateLimit RateLimitConfig
	Fees      FeesConfig
}

// SheetsConfig describes the spreadsheet acting as the datastore.
type SheetsConfig struct {
	Backend       string
	SpreadsheetID string
	ProjectID     string
	ClientEmail   string
	PrivateKey    string
	Worksheets    WorksheetNames
}

// WorksheetNames holds the tab title used for every entity.
type WorksheetNames struct {
	Students     string `json:"students"`
	Courses      string `json:"courses"`
	Fees         string `json:"fees"`
	Attendance   string `json:"attendance"`
	Notices      string `json:"notices"`
	Certificates string `json:"certificates"`
	Admins       string `json:"admins"`
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig toggles enforcement of bearer tokens on mutating routes.
type AuthConfig struct {
	Enforce bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// RateLimitConfig bounds requests per client IP within a window.
type RateLimitConfig struct {
	Enabled  bool
	Capacity int
	Window   time.Duration
}

// FeesConfig controls the background overdue sweep.
type FeesConfig struct {
	OverdueSweepEnabled  bool
	OverdueSweepInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	if cfg.Env == "" {
		cfg.Env = v.GetString("NODE_ENV")
	}
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheets = SheetsConfig{
		Backend:       strings.ToLower(v.GetString("SHEETS_BACKEND")),
		SpreadsheetID: v.GetString("GOOGLE_SPREADSHEET_ID"),
		ProjectID:     v.GetString("GOOGLE_PROJECT_ID"),
		ClientEmail:   v.GetString("GOOGLE_CLIENT_EMAIL"),
		PrivateKey:    strings.ReplaceAll(v.GetString("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
		Worksheets: WorksheetNames{
			Students:     v.GetString("STUDENTS_SHEET_NAME"),
			Courses:      v.GetString("COURSES_SHEET_NAME"),
			Fees:         v.GetString("FEES_SHEET_NAME"),
			Attendance:   v.GetString("ATTENDANCE_SHEET_NAME"),
			Notices:      v.GetString("NOTICES_SHEET_NAME"),
			Certificates: v.GetString("CERTIFICATES_SHEET_NAME"),
			Admins:       v.GetString("ADMINS_SHEET_NAME"),
		},
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Auth = AuthConfig{Enforce: v.GetBool("AUTH_ENFORCE")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:  v.GetBool("ENABLE_RATE_LIMIT"),
		Capacity: v.GetInt("RATE_LIMIT_CAPACITY"),
		Window:   parseDuration(v.GetString("RATE_LIMIT_WINDOW"), 15*time.Minute),
	}

	cfg.Fees = FeesConfig{
		OverdueSweepEnabled:  v.GetBool("ENABLE_FEE_OVERDUE_SWEEP"),
		OverdueSweepInterval: parseDuration(v.GetString("FEE_OVERDUE_SWEEP_INTERVAL"), 24*time.Hour),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "")
	v.SetDefault("NODE_ENV", "")
	v.SetDefault("PORT", 8000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("SHEETS_BACKEND", BackendGoogle)
	v.SetDefault("GOOGLE_SPREADSHEET_ID", "")
	v.SetDefault("GOOGLE_PROJECT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_EMAIL", "")
	v.SetDefault("GOOGLE_PRIVATE_KEY", "")
	v.SetDefault("STUDENTS_SHEET_NAME", "Students")
	v.SetDefault("COURSES_SHEET_NAME", "Courses")
	v.SetDefault("FEES_SHEET_NAME", "Fees")
	v.SetDefault("ATTENDANCE_SHEET_NAME", "Attendance")
	v.SetDefault("NOTICES_SHEET_NAME", "Notices")
	v.SetDefault("CERTIFICATES_SHEET_NAME", "Certificates")
	v.SetDefault("ADMINS_SHEET_NAME", "Admins")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rbcomputer_sheets")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "rbc-sheets-api")
	v.SetDefault("AUTH_ENFORCE", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")

	v.SetDefault("ENABLE_FEE_OVERDUE_SWEEP", false)
	v.SetDefault("FEE_OVERDUE_SWEEP_INTERVAL", "24h")
}

// isMissingFile reports whether viper failed only because .env does not exist.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
