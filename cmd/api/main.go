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
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/planify-api/api/swagger"
	"github.com/noah-isme/planify-api/internal/handler"
	internalmiddleware "github.com/noah-isme/planify-api/internal/middleware"
	"github.com/noah-isme/planify-api/internal/planner"
	"github.com/noah-isme/planify-api/internal/repository"
	"github.com/noah-isme/planify-api/internal/router"
	"github.com/noah-isme/planify-api/internal/service"
	"github.com/noah-isme/planify-api/pkg/cache"
	"github.com/noah-isme/planify-api/pkg/config"
	"github.com/noah-isme/planify-api/pkg/database"
	"github.com/noah-isme/planify-api/pkg/jobs"
	"github.com/noah-isme/planify-api/pkg/logger"
	"github.com/noah-isme/planify-api/pkg/storage"
)

// @title Planify API
// @version 1.0.0
// @description Weekly planner: free slots and spoken tasks in, calendar and suggestions out
// @BasePath /
// @schemes http

const shutdownTimeout = 10 * time.Second

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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	metrics := service.NewMetricsService()
	validate := validator.New()
	checks := map[string]handler.ReadinessCheck{}

	policy, err := planner.ParseSlotPolicy(cfg.Scheduler.SlotPolicy)
	if err != nil {
		return err
	}
	engine := planner.New(planner.Config{
		Scorer:     planner.NewScorer(planner.WithSeed(cfg.Scheduler.JitterSeed)),
		SlotPolicy: policy,
	})

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		repo := repository.NewCacheRepository(client)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	if cacheSvc.Enabled() {
		checks["cache"] = cacheSvc.Ping
	}
	store := service.NewScheduleStore(cacheSvc, cfg.Scheduler.ResultCacheSize, cfg.Scheduler.ResultTTL)

	generator := service.NewScheduleGeneratorService(engine, store, metrics, validate, logr, service.ScheduleGeneratorConfig{
		MaxSlots: cfg.Scheduler.MaxSlots,
		MaxTasks: cfg.Scheduler.MaxTasks,
	})

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return err
	}
	secret := cfg.Exports.SignedURLSecret
	if secret == "" {
		if cfg.IsProduction() {
			return errors.New("EXPORTS_SIGNED_URL_SECRET is required in production")
		}
		secret = uuid.NewString()
		logr.Warn("EXPORTS_SIGNED_URL_SECRET not set; download links will not survive a restart")
	}
	signer := storage.NewSignedURLSigner(secret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(store, files, signer, metrics, validate, logr, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	})

	cleanup := jobs.NewQueue("export-cleanup", func(ctx context.Context, _ jobs.Job) error {
		_, err := exporter.Cleanup(ctx)
		return err
	}, jobs.QueueConfig{MaxRetries: cfg.Exports.WorkerRetries, Logger: logr})
	cleanup.Start(ctx)
	defer cleanup.Stop()
	if err := cleanup.Every(cfg.Exports.CleanupInterval, func() jobs.Job {
		return jobs.Job{ID: uuid.NewString(), Type: "export_cleanup"}
	}); err != nil {
		return err
	}

	var eventHandler *handler.EventHandler
	if cfg.Events.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close() //nolint:errcheck
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		checks["database"] = pingDB(db)
		events := service.NewEventService(repository.NewEventRepository(db), metrics, validate, logr)
		eventHandler = handler.NewEventHandler(events)
	}

	engineHTTP := router.New(router.Deps{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     !cfg.IsProduction(),
		Logger:         logr,
		Metrics:        metrics,
		RateLimiter: internalmiddleware.NewRateLimiter(internalmiddleware.RateLimitConfig{
			PerMinute: cfg.RateLimit.PerMinute,
			Burst:     cfg.RateLimit.Burst,
			MaxIPs:    cfg.RateLimit.MaxIPs,
		}, metrics),
		Planner: handler.NewScheduleGeneratorHandler(generator),
		Export:  handler.NewExportHandler(exporter),
		Events:  eventHandler,
		Ops:     handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engineHTTP,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("slot_policy", string(policy)),
			zap.Bool("events", cfg.Events.Enabled),
			zap.Bool("cache", cacheSvc.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pingDB(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}
