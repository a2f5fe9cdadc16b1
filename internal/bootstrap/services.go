// Package bootstrap wires configuration into the catalogue services and the
// HTTP server. Both cmd/server and the catalogue CLI start from here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	catalogueapp "github.com/seedlink/backend/internal/application/catalogue"
	"github.com/seedlink/backend/internal/infrastructure/config"
	"github.com/seedlink/backend/internal/infrastructure/printing"
	"github.com/seedlink/backend/internal/infrastructure/storage"
	"github.com/seedlink/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X ...bootstrap.Version=..."
var Version = "dev"

// Services holds the long-lived components built from configuration
type Services struct {
	Config    *config.Config
	Logger    *zap.Logger
	Renderer  printing.PDFRenderer
	Templates *printing.TemplateStore
	Output    *printing.OutputDir
	Publisher *storage.S3Publisher
	Generator *catalogueapp.Generator
	Tracer    *telemetry.TracerProvider
}

// Option customises NewServices
type Option func(*options)

type options struct {
	renderer  printing.PDFRenderer
	s3Options []storage.S3PublisherOption
}

// WithRenderer replaces the configured PDF renderer
func WithRenderer(r printing.PDFRenderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithS3Options passes options through to the S3 publisher
func WithS3Options(opts ...storage.S3PublisherOption) Option {
	return func(o *options) {
		o.s3Options = append(o.s3Options, opts...)
	}
}

// NewRenderer builds the PDF renderer selected by cfg.Engine
func NewRenderer(cfg *config.PrintingConfig, log *zap.Logger) (printing.PDFRenderer, error) {
	switch cfg.Engine {
	case "", config.EngineWkhtmltopdf:
		return printing.NewWkhtmltopdfRenderer(&printing.WkhtmltopdfConfig{
			BinaryPath:     cfg.BinaryPath,
			DefaultTimeout: cfg.RenderTimeout,
			Logger:         log.Named("wkhtmltopdf"),
		}), nil
	case config.EngineChromedp:
		return printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.RenderTimeout,
			RemoteURL:      cfg.ChromeRemoteURL,
			NoSandbox:      cfg.ChromeNoSandbox,
			Logger:         log.Named("chromedp"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown printing engine %q", cfg.Engine)
	}
}

// NewServices loads the catalogue template once, prepares the output
// directory and builds the generator. Storage is only contacted when enabled.
func NewServices(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*Services, error) {
	if log == nil {
		log = zap.NewNop()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	s := &Services{Config: cfg, Logger: log}

	var err error
	s.Tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log.Named("telemetry"))
	if err != nil {
		return nil, fmt.Errorf("create tracer provider: %w", err)
	}

	s.Templates = printing.NewTemplateStore(&printing.TemplateStoreConfig{
		ExternalDir: cfg.Printing.TemplateDir,
		Logger:      log.Named("templates"),
	})
	var engineOpts []printing.TemplateEngineOption
	if cfg.Printing.CurrencySymbol != "" {
		engineOpts = append(engineOpts, printing.WithCurrencySymbol(cfg.Printing.CurrencySymbol))
	}
	tmpl, err := printing.LoadCatalogueTemplate(s.Templates, printing.NewTemplateEngine(engineOpts...))
	if err != nil {
		return nil, fmt.Errorf("load catalogue template: %w", err)
	}

	s.Output, err = printing.NewOutputDir(&printing.OutputDirConfig{
		BaseDir: cfg.Printing.BaseDir,
		BaseURL: cfg.Printing.PublicURL,
		Logger:  log.Named("output"),
	})
	if err != nil {
		return nil, err
	}

	genOpts := []catalogueapp.Option{
		catalogueapp.WithLogger(log.Named("catalogue")),
		catalogueapp.WithRenderTimeout(cfg.Printing.RenderTimeout),
		catalogueapp.WithTracer(s.Tracer.Tracer("catalogue")),
	}

	if cfg.Storage.Enabled {
		s3Opts := append([]storage.S3PublisherOption{storage.WithLogger(log.Named("s3"))}, o.s3Options...)
		s.Publisher, err = storage.NewS3Publisher(&cfg.Storage, s3Opts...)
		if err != nil {
			return nil, fmt.Errorf("create S3 publisher: %w", err)
		}
		if err := s.Publisher.EnsureBucket(ctx); err != nil {
			// Publishing is best effort; keep serving local files
			log.Warn("S3 bucket is not available", zap.String("bucket", s.Publisher.Bucket()), zap.Error(err))
		}
		genOpts = append(genOpts, catalogueapp.WithPublisher(s.Publisher))
	}

	s.Renderer = o.renderer
	if s.Renderer == nil {
		s.Renderer, err = NewRenderer(&cfg.Printing, log)
		if err != nil {
			return nil, err
		}
	}

	s.Generator = catalogueapp.NewGenerator(tmpl, s.Renderer, s.Output, genOpts...)

	log.Info("Catalogue services ready",
		zap.String("engine", cfg.Printing.Engine),
		zap.String("output_dir", s.Output.Dir()),
		zap.String("template_dir", s.Templates.ExternalDir()),
		zap.Bool("storage", cfg.Storage.Enabled),
		zap.Bool("tracing", s.Tracer.IsEnabled()))

	return s, nil
}

// Close releases the renderer and flushes pending spans
func (s *Services) Close() error {
	var errs []error
	if s.Renderer != nil {
		if err := s.Renderer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Tracer != nil {
		if err := s.Tracer.Shutdown(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
