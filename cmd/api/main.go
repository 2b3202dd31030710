package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/educontrol/educontrol-api/api/swagger"
	"github.com/educontrol/educontrol-api/internal/handler"
	internalmiddleware "github.com/educontrol/educontrol-api/internal/middleware"
	"github.com/educontrol/educontrol-api/internal/repository"
	"github.com/educontrol/educontrol-api/internal/service"
	"github.com/educontrol/educontrol-api/pkg/cache"
	"github.com/educontrol/educontrol-api/pkg/config"
	"github.com/educontrol/educontrol-api/pkg/database"
	"github.com/educontrol/educontrol-api/pkg/logger"
	corsmiddleware "github.com/educontrol/educontrol-api/pkg/middleware/cors"
	reqidmiddleware "github.com/educontrol/educontrol-api/pkg/middleware/requestid"
)

// @title EduControl API
// @version 1.0.0
// @description Discipline reports and outstanding service hours for school prefects, orientation staff and students.
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

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx := context.Background()
	caps := service.NewSchemaService(repository.NewSchemaRepository(db), logr).LoadCapabilities(ctx)

	metrics := service.NewMetricsService()
	if !cfg.Metrics.Enabled {
		metrics = nil
	}

	var cacheRepo *repository.CacheRepository
	var cachePinger handler.Pinger
	if cfg.Orientation.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis, 3*time.Second)
		if err != nil {
			logr.Warn("redis unavailable, orientation cache disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, "educontrol")
			cachePinger = cacheRepo
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Orientation.CacheTTL, logr, cacheRepo != nil)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db, caps)
	studentRepo := repository.NewStudentRepository(db, caps)
	reportRepo := repository.NewReportRepository(db, caps)

	studentSvc := service.NewStudentService(userRepo, studentRepo, caps, cfg.Reports.PhotoPlaceholder, logr)
	reportSvc := service.NewReportService(reportRepo, studentSvc, caps, cacheSvc, metrics, validate, logr, service.ReportConfig{
		AllowUnlinked: cfg.Reports.AllowUnlinked,
		Redirect:      cfg.Reports.Redirect,
	})
	orientationSvc := service.NewOrientationService(studentRepo, caps, cacheSvc, metrics, logr)
	authSvc := service.NewAuthService(studentSvc, studentRepo, validate, logr, service.AuthConfig{
		Secret:                  cfg.JWT.Secret,
		Expiry:                  cfg.JWT.Expiration,
		Issuer:                  cfg.JWT.Issuer,
		AllowPlaintextPasswords: cfg.Auth.AllowPlaintextPasswords,
		AllowMatriculaLogin:     cfg.Auth.AllowMatriculaLogin,
		StudentLinkColumn:       caps.UserHasStudentLink,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(internalmiddleware.Metrics(metrics))
	}

	handler.RegisterRoutes(r, handler.RouteConfig{
		APIPrefix:      cfg.APIPrefix,
		MetricsEnabled: metrics != nil,
	}, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Students:    handler.NewStudentHandler(studentSvc, reportSvc),
		Reports:     handler.NewReportHandler(reportSvc),
		Orientation: handler.NewOrientationHandler(orientationSvc),
		Metrics:     handler.NewMetricsHandler(metrics, handler.PingFunc(db.PingContext), cachePinger, caps),
	}, authSvc, logr)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "report_link", caps.ReportLink)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-shutdownCtx.Done()
	logr.Info("shutting down")
	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
