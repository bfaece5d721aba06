package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finanzas/internal/config"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

// One-shot reconciliation job: gives every reminder flagged paid a payment
// history row and moves it to its correct scheduling state. Safe to run more
// than once.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting reminder backfill", "db", cfg.SQLiteDBPath)

	report, err := services.NewBackfillReconciler(store).Run(ctx)
	if err != nil {
		logger.Error("Backfill failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Backfill completed",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed)

	if report.Failed > 0 {
		os.Exit(1)
	}
}
