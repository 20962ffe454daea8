package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/app"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/bootstrap"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/config"
	appLogger "github.com/LerianStudio/lerian-usa-site/backend/internal/infra/logger"
	"github.com/LerianStudio/lerian-usa-site/backend/internal/infra/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadEnvFiles()
	if _, err := appLogger.Init(); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer appLogger.Sync()
	logger := appLogger.S().With("component", "cmd.server")

	flags := config.LoadRuntimeFlags()
	cfg, err := config.LoadServerConfig(flags)
	if err != nil {
		logger.Fatalw("load server config failed", "error", err)
	}

	metrics.MustRegister()

	resources, err := app.Bootstrap(ctx, flags)
	if err != nil {
		logger.Fatalw("bootstrap failed", "error", err)
	}
	defer func() {
		if err := resources.Close(); err != nil {
			logger.Warnw("resource cleanup error", "error", err)
		}
	}()

	application, err := bootstrap.BuildApplication(ctx, logger, resources, cfg)
	if err != nil {
		logger.Fatalw("build application failed", "error", err)
	}

	if cfg.SnapshotSchedule != "" {
		scheduler, err := application.Analytics.StartSnapshotScheduler(cfg.SnapshotSchedule, time.Minute)
		if err != nil {
			logger.Fatalw("start analytics scheduler failed", "error", err)
		}
		defer scheduler.Stop()
		logger.Infow("analytics snapshot scheduler started", "schedule", cfg.SnapshotSchedule)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infow("http server listening", "addr", srv.Addr, "mode", flags.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("http server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("graceful shutdown failed", "error", err)
	}
}
