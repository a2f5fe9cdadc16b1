package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seedlink/backend/internal/infrastructure/logger"
	"github.com/seedlink/backend/internal/interfaces/http/handler"
	"github.com/seedlink/backend/internal/interfaces/http/middleware"
	"github.com/seedlink/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// NewEngine builds the gin engine with the middleware stack and all routes
func NewEngine(s *Services) *gin.Engine {
	cfg := s.Config
	log := s.Logger

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request ID must exist before logging and recovery
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	systemHandler := handler.NewSystemHandler(cfg.App.Name, Version, cfg.Printing.Engine, s.Output.Dir())
	engine.GET("/health", systemHandler.Health)

	catalogueHandler := handler.NewCatalogueHandler(s.Generator, s.Output)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	r.Register(handler.SystemRoutes(systemHandler))
	r.Register(handler.CatalogueRoutes(catalogueHandler))
	r.Setup()

	return engine
}

// NewHTTPServer wraps the engine in an http.Server configured from HTTPConfig
func NewHTTPServer(s *Services) *http.Server {
	cfg := s.Config
	return &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        NewEngine(s),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully
func Serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}
