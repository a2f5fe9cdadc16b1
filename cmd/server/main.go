package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/seedlink/backend/internal/bootstrap"
	"github.com/seedlink/backend/internal/infrastructure/config"
	"github.com/seedlink/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromAppConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting catalogue service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", bootstrap.Version),
		zap.String("engine", cfg.Printing.Engine),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := bootstrap.NewServices(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize services", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Warn("Failed to close services", zap.Error(err))
		}
	}()

	if err := bootstrap.Serve(ctx, bootstrap.NewHTTPServer(services), log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
