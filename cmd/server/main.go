package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/csvexport/internal/config"
	"github.com/JonMunkholm/csvexport/internal/core"
	"github.com/JonMunkholm/csvexport/internal/logging"
	"github.com/JonMunkholm/csvexport/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"csv_path", cfg.Data.CSVPath,
		"export_max_concurrent", cfg.Export.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	service, err := core.NewService(core.ServiceConfig{
		CSVPath:              cfg.Data.CSVPath,
		TempDir:              cfg.Export.TempDir,
		MaxConcurrentExports: cfg.Export.MaxConcurrent,
		ExportWaitTime:       cfg.Export.MaxWaitTime,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// The file is re-read per request, so a missing source is only a warning.
	if _, err := os.Stat(cfg.Data.CSVPath); err != nil {
		slog.Warn("csv source not readable at startup", "path", cfg.Data.CSVPath, "error", err)
	}

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go service.StartSweeper(jobCtx, core.SweepConfig{
		Interval: cfg.Export.SweepInterval,
		MaxAge:   cfg.Export.SweepMaxAge,
	})

	// Graceful shutdown; shutdownDone closes once in-flight requests finish
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for in-flight exports so their archives are streamed and removed
		exportStatus := service.ExportLimiterStatus()
		if exportStatus.Active > 0 {
			slog.Info("waiting for exports to complete", "active", exportStatus.Active)
			if err := service.WaitForExports(shutdownCtx); err != nil {
				slog.Warn("exports did not complete in time", "error", err)
			} else {
				slog.Info("all exports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-shutdownDone
	slog.Info("server stopped")
}
