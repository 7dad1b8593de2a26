package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/filevault/filevault/internal/app"
	"github.com/filevault/filevault/internal/config"
	"github.com/filevault/filevault/internal/logger"
	"github.com/filevault/filevault/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	thumbnails := worker.NewThumbnailWorker(app.FileRepository, app.Storage)
	welcome := worker.NewWelcomeWorker(app.UserRepository, app.EmailService)
	runner := worker.NewRunner(app.Queue, thumbnails, welcome)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("worker starting", "env", cfg.AppEnv)
	runner.Run(ctx)
	slog.Info("worker stopped")
}
