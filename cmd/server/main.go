package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poflow/backend/internal/application/etl"
	"github.com/poflow/backend/internal/infrastructure/config"
	"github.com/poflow/backend/internal/infrastructure/logger"
	"github.com/poflow/backend/internal/infrastructure/persistence"
	"github.com/poflow/backend/internal/infrastructure/pipeline"
	"github.com/poflow/backend/internal/interfaces/http/handler"
	"github.com/poflow/backend/internal/interfaces/http/middleware"
	"github.com/poflow/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PO Flow Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed gorm logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	uploadHistoryRepo := persistence.NewGormUploadHistoryRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)

	// File processing pipeline
	processor := etl.NewProcessor(db.DB, log, uploadHistoryRepo)
	scheduler := pipeline.NewScheduler(pipeline.Config{
		Workers:   cfg.Pipeline.Workers,
		QueueSize: cfg.Pipeline.QueueSize,
	}, processor, log)
	if err := scheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start pipeline scheduler", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// CORS, body limit, tenant extraction
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.Upload.MaxFileSize))

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Required = cfg.App.Env == "production"
	tenantCfg.Logger = log
	engine.Use(middleware.TenantWithConfig(tenantCfg))

	// Service banner and liveness endpoints sit outside API versioning
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	engine.GET("/", systemHandler.Info)
	engine.GET("/health", systemHandler.Health)

	uploadHandler := handler.NewUploadHandler(scheduler, cfg.Upload, log)
	uploadHistoryHandler := handler.NewUploadHistoryHandler(uploadHistoryRepo)
	accountHandler := handler.NewAccountHandler(accountRepo)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(uploadHandler).
		Register(uploadHistoryHandler).
		Register(accountHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown: stop accepting requests first, then drain the
	// processing queue so spooled files are not orphaned
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := scheduler.Stop(ctx); err != nil {
		log.Error("Pipeline did not drain before timeout", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
