package catalogue

import (
	"context"
	"time"

	"github.com/seedlink/backend/internal/domain/catalogue"
	"github.com/seedlink/backend/internal/infrastructure/logger"
	infra "github.com/seedlink/backend/internal/infrastructure/printing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/seedlink/backend/internal/application/catalogue"

// HTMLTemplate renders template data to an HTML document
type HTMLTemplate interface {
	Execute(data interface{}) (string, error)
}

// Publisher copies a generated file to shared storage and returns its object key
type Publisher interface {
	Publish(ctx context.Context, name, path string) (string, error)
}

// Document is the result of generating one catalogue
type Document struct {
	Path           string
	FileName       string
	URL            string
	Size           int64
	PageCount      int
	ObjectKey      string
	RenderDuration time.Duration
}

// Generator renders catalogues to PDF files.
// It holds no per-call state and is safe for concurrent use.
type Generator struct {
	template      HTMLTemplate
	renderer      infra.PDFRenderer
	output        *infra.OutputDir
	page          catalogue.PageSetup
	renderTimeout time.Duration
	publisher     Publisher
	logger        *zap.Logger
	tracer        trace.Tracer
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTracer sets the tracer used for generation spans
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Generator) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// WithPublisher mirrors each generated PDF through p
func WithPublisher(p Publisher) Option {
	return func(g *Generator) {
		g.publisher = p
	}
}

// WithRenderTimeout bounds each render call. Zero means no timeout.
func WithRenderTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.renderTimeout = d
	}
}

// NewGenerator creates a Generator. The template is compiled by the caller
// once and reused for every call.
func NewGenerator(tmpl HTMLTemplate, renderer infra.PDFRenderer, output *infra.OutputDir, opts ...Option) *Generator {
	g := &Generator{
		template: tmpl,
		renderer: renderer,
		output:   output,
		page:     catalogue.DefaultPageSetup(),
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Preview renders the catalogue HTML without producing a PDF.
// Template errors are returned unchanged.
func (g *Generator) Preview(ctx context.Context, req catalogue.Request) (string, error) {
	return g.template.Execute(req.TemplateData())
}

// Generate renders the catalogue to a new PDF file and returns its path
func (g *Generator) Generate(ctx context.Context, req catalogue.Request) (string, error) {
	doc, err := g.GenerateDocument(ctx, req)
	if err != nil {
		return "", err
	}
	return doc.Path, nil
}

// GenerateDocument renders the catalogue to a new PDF file.
// Renderer errors are wrapped in *RenderFailure; template errors are not.
// Once started, a render is not cancelled with ctx; only the render timeout
// bounds it.
func (g *Generator) GenerateDocument(ctx context.Context, req catalogue.Request) (*Document, error) {
	ctx, span := g.tracer.Start(ctx, "catalogue.Generate", trace.WithAttributes(
		attribute.String("catalogue.shop", req.ShopName),
		attribute.Int("catalogue.products", len(req.Products)),
	))
	defer span.End()

	log := logger.WithTraceContext(ctx, g.logger)
	if id := logger.GetRequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	html, err := g.renderTemplate(ctx, req)
	if err != nil {
		log.Error("catalogue template rendering failed",
			zap.String("shop", req.ShopName),
			zap.Error(err))
		failSpan(span, err)
		return nil, err
	}

	name, path := g.output.NewPath()
	span.SetAttributes(attribute.String("catalogue.file", name))

	result, err := g.renderPDF(context.WithoutCancel(ctx), &infra.RenderRequest{
		HTML:       html,
		OutputPath: path,
		Page:       g.page,
		Timeout:    g.renderTimeout,
	})
	if err != nil {
		log.Error("catalogue PDF rendering failed",
			zap.String("shop", req.ShopName),
			zap.String("path", path),
			zap.Error(err))
		failSpan(span, err)
		return nil, &RenderFailure{Cause: err}
	}

	doc := &Document{
		Path:           path,
		FileName:       name,
		URL:            g.output.URL(name),
		Size:           result.Size,
		RenderDuration: result.RenderDuration,
	}

	if info, err := infra.InspectPDF(path); err != nil {
		log.Warn("could not inspect generated PDF", zap.String("path", path), zap.Error(err))
	} else {
		doc.PageCount = info.Pages
		doc.Size = info.Size
	}

	if g.publisher != nil {
		key, err := g.publisher.Publish(ctx, name, path)
		if err != nil {
			log.Warn("failed to publish catalogue", zap.String("path", path), zap.Error(err))
			span.AddEvent("publish failed", trace.WithAttributes(attribute.String("error", err.Error())))
		} else {
			doc.ObjectKey = key
		}
	}

	span.SetAttributes(
		attribute.Int64("catalogue.size", doc.Size),
		attribute.Int("catalogue.pages", doc.PageCount),
	)
	log.Info("catalogue generated",
		zap.String("shop", req.ShopName),
		zap.String("path", path),
		zap.Int64("size", doc.Size),
		zap.Int("pages", doc.PageCount),
		zap.Duration("duration", doc.RenderDuration))

	return doc, nil
}

func (g *Generator) renderTemplate(ctx context.Context, req catalogue.Request) (string, error) {
	_, span := g.tracer.Start(ctx, "catalogue.RenderTemplate")
	defer span.End()

	html, err := g.template.Execute(req.TemplateData())
	if err != nil {
		failSpan(span, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("html.bytes", len(html)))
	return html, nil
}

func (g *Generator) renderPDF(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	ctx, span := g.tracer.Start(ctx, "catalogue.RenderPDF", trace.WithAttributes(
		attribute.String("pdf.path", req.OutputPath),
		attribute.Int64("pdf.timeout_ms", req.Timeout.Milliseconds()),
	))
	defer span.End()

	result, err := g.renderer.Render(ctx, req)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}
	return result, nil
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
