package main

import (
	"context"

	"github.com/seedlink/backend/internal/bootstrap"
	"github.com/seedlink/backend/internal/infrastructure/config"
	"github.com/seedlink/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what the subcommands share. Tests replace buildServices to
// inject a renderer.
type app struct {
	configPath    string
	verbose       bool
	buildServices func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*bootstrap.Services, error)
}

func newApp() *app {
	return &app{
		buildServices: func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*bootstrap.Services, error) {
			return bootstrap.NewServices(ctx, cfg, log)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogue",
		Short: "Render shop catalogues to PDF",
		Long: `catalogue renders a shop's product list into the catalogue HTML template
and converts it to a PDF under <base_dir>/static.

Configuration is read from config.toml (or --config) and SEEDLINK_* environment
variables, the same way as the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a config file (default: search for config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// load reads configuration and builds the logger. When logs would go to
// stdout they are moved to stderr so stdout stays clean for results.
func (a *app) load(keepStdout bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return nil, nil, err
	}

	lc := logger.FromAppConfig(cfg)
	if a.verbose {
		lc.Level = "debug"
	}
	if !keepStdout && (lc.Output == "" || lc.Output == "stdout") {
		lc.Output = "stderr"
	}
	log, err := logger.New(lc)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(bootstrap.Version)
		},
	}
}
