package main

import (
	"os/signal"
	"syscall"

	"github.com/seedlink/backend/internal/bootstrap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalogue HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.load(true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if port != "" {
				cfg.App.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			services, err := a.buildServices(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := services.Close(); err != nil {
					log.Warn("Failed to close renderer", zap.Error(err))
				}
			}()

			log.Info("Starting catalogue service",
				zap.String("app", cfg.App.Name),
				zap.String("version", bootstrap.Version),
				zap.String("engine", cfg.Printing.Engine))

			return bootstrap.Serve(ctx, bootstrap.NewHTTPServer(services), log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides app.port)")
	return cmd
}
