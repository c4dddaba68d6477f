// Package main provides the college resolver server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alumnibase/college-resolver-go/internal/college"
	"github.com/alumnibase/college-resolver-go/internal/config"
	"github.com/alumnibase/college-resolver-go/internal/dataset"
	"github.com/alumnibase/college-resolver-go/internal/datasetstore"
	"github.com/alumnibase/college-resolver-go/internal/logger"
	"github.com/alumnibase/college-resolver-go/internal/metrics"
	"github.com/alumnibase/college-resolver-go/internal/sentry"
	"github.com/alumnibase/college-resolver-go/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		BetterstackToken:    cfg.BetterstackToken,
		BetterstackEndpoint: cfg.BetterstackEndpoint,
	})
	log.Info("Starting College Resolver Server")

	// Initialize Sentry error tracking (no-op when token is unset)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Fatal("Failed to initialize Sentry")
	}

	// Connect to the mappings database
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Fetch the reference dataset from the object store when it is not on
	// local disk and remote fetching is configured
	if cfg.R2.Enabled() {
		store, err := datasetstore.New(context.Background(), datasetstore.Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create dataset store client")
		}
		if err := store.EnsureLocal(context.Background(), cfg.R2.DatasetKey, cfg.DatasetPath); err != nil {
			log.WithError(err).Fatal("Failed to fetch reference dataset")
		}
	}

	// Build the resolution service and its indices up front so the first
	// request never pays the index build
	svc := college.NewService(dataset.NewLoader(cfg.DatasetPath, log), log, m)
	if err := svc.Init(context.Background()); err != nil {
		log.WithError(err).Fatal("Failed to build resolution index")
	}

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	api := newAPI(svc, db, m, log, cfg.MaxNamesPerRequest, cfg.SearchMaxLimit)
	setupRoutes(router, api, db, registry, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	// Flush buffered Sentry events
	sentry.Flush(2 * time.Second)

	log.Info("Server stopped")
}
