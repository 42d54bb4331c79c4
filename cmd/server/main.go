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
	"go.uber.org/zap"

	_ "github.com/noah-isme/sped-tracker-api/api/swagger"
	"github.com/noah-isme/sped-tracker-api/internal/handler"
	"github.com/noah-isme/sped-tracker-api/internal/repository"
	"github.com/noah-isme/sped-tracker-api/internal/router"
	"github.com/noah-isme/sped-tracker-api/internal/service"
	"github.com/noah-isme/sped-tracker-api/pkg/cache"
	"github.com/noah-isme/sped-tracker-api/pkg/config"
	"github.com/noah-isme/sped-tracker-api/pkg/database"
	"github.com/noah-isme/sped-tracker-api/pkg/logger"
)

// @title Special Education Service Tracker API
// @version 1.0.0
// @description Caseload, service minutes and weekly schedules for special education teachers
// @BasePath /api/v1
// @schemes http
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

	db, err := database.NewPostgres(context.Background(), cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.ViewCache.Enabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			// The week view works uncached; Redis being down is not fatal.
			logr.Warn("view cache disabled, redis unreachable", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.ViewCache.TTL, logr, cacheRepo != nil)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	serviceRepo := repository.NewServiceRecordRepository(db)
	instanceRepo := repository.NewServiceInstanceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, serviceRepo, instanceRepo, validate, logr)
	serviceSvc := service.NewServiceRecordService(serviceRepo, instanceRepo, cacheSvc, validate, logr)
	instanceSvc := service.NewServiceInstanceService(instanceRepo, cacheSvc, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, instanceRepo, cacheSvc, metrics, validate, logr, service.ScheduleServiceConfig{
		WeekViewTTL: cfg.ViewCache.TTL,
	})
	dashboardSvc := service.NewDashboardService(studentRepo, scheduleRepo, logr)
	userSvc := service.NewUserService(userRepo, cacheSvc, logr)
	exportSvc := service.NewExportService(scheduleRepo, instanceRepo, metrics, logr)

	handlers := router.Handlers{
		Auth:             handler.NewAuthHandler(authSvc),
		Students:         handler.NewStudentHandler(studentSvc),
		Services:         handler.NewServiceRecordHandler(serviceSvc),
		ServiceInstances: handler.NewServiceInstanceHandler(instanceSvc),
		Schedules:        handler.NewScheduleHandler(scheduleSvc, exportSvc),
		Teachers:         handler.NewTeacherHandler(userSvc),
		Dashboard:        handler.NewDashboardHandler(dashboardSvc),
		Metrics:          handler.NewMetricsHandler(metrics, db),
	}

	r := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, handlers, authSvc, metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
