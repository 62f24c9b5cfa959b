package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/rbc-sheets-api/api/swagger"
	"github.com/noah-isme/rbc-sheets-api/internal/handler"
	internalmiddleware "github.com/noah-isme/rbc-sheets-api/internal/middleware"
	"github.com/noah-isme/rbc-sheets-api/internal/repository"
	"github.com/noah-isme/rbc-sheets-api/internal/service"
	"github.com/noah-isme/rbc-sheets-api/pkg/cache"
	"github.com/noah-isme/rbc-sheets-api/pkg/config"
	"github.com/noah-isme/rbc-sheets-api/pkg/jobs"
	"github.com/noah-isme/rbc-sheets-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/rbc-sheets-api/pkg/middleware/cors"
	"github.com/noah-isme/rbc-sheets-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/rbc-sheets-api/pkg/middleware/requestid"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

// @title RB Computer Backend API
// @version 1.0.0
// @description Student, course and fee management backed by Google Sheets
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	client, closeBackend, err := sheets.OpenClient(ctx, cfg, logr, sheets.WithObserver(metrics))
	if err != nil {
		logr.Fatal("failed to open sheets backend", zap.String("backend", cfg.Sheets.Backend), zap.Error(err))
	}
	defer closeBackend()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			defer closeRedis(redisClient, logr)
			cacheRepo = repository.NewCacheRepository(redisClient, "rbc:", logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()
	names := cfg.Sheets.Worksheets

	students := service.NewStudentService(repository.NewWorksheetRepository(client, names.Students), cacheSvc, logr)
	courses := service.NewCourseService(repository.NewWorksheetRepository(client, names.Courses), cacheSvc, logr)
	fees := service.NewFeeService(repository.NewWorksheetRepository(client, names.Fees), cacheSvc, validate, logr)
	auth := service.NewAuthService(repository.NewWorksheetRepository(client, names.Admins), students, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Students: students,
		Courses:  courses,
		Fees:     fees,
		Cache:    cacheSvc,
		Logger:   logr,
		Config:   service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	sheetsSvc := service.NewSheetsService(client, cfg.Sheets, cfg.Env, logr)
	exports := service.NewExportService(client, logr)

	scheduler := jobs.NewScheduler(logr)
	if cfg.Fees.OverdueSweepEnabled {
		scheduler.Register("fees.overdue-sweep", service.NewOverdueSweep(fees, metrics, time.Now), jobs.Schedule{
			Interval:   cfg.Fees.OverdueSweepInterval,
			RunOnStart: true,
			MaxRetries: 2,
			RetryDelay: 30 * time.Second,
		})
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	if cfg.RateLimit.Enabled {
		r.Use(ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.Window).Middleware())
	}
	r.Use(internalmiddleware.WithResponseMeta())

	handler.RegisterRoutes(r, handler.Handlers{
		Sheets:    handler.NewSheetsHandler(sheetsSvc),
		Auth:      handler.NewAuthHandler(auth),
		Students:  handler.NewStudentHandler(students, fees),
		Courses:   handler.NewCourseHandler(courses),
		Fees:      handler.NewFeeHandler(fees),
		Dashboard: handler.NewDashboardHandler(dashboard),
		Export:    handler.NewExportHandler(exports),
		Metrics:   handler.NewMetricsHandler(metrics.Handler()),
	}, handler.RouteOptions{
		APIPrefix:  cfg.APIPrefix,
		Tokens:     auth,
		Enforce:    cfg.Auth.Enforce,
		Worksheets: names,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	status := sheetsSvc.Status(ctx)
	logr.Info("sheets backend ready",
		zap.String("backend", cfg.Sheets.Backend),
		zap.Bool("connected", status.Connected),
		zap.String("spreadsheet", client.SpreadsheetID()),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "authEnforced", cfg.Auth.Enforce)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func closeRedis(client *redis.Client, logr *zap.Logger) {
	if err := client.Close(); err != nil {
		logr.Warn("failed to close redis", zap.Error(err))
	}
}
