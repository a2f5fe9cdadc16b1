package bootstrap

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/seedlink/backend/internal/domain/catalogue"
	"github.com/seedlink/backend/internal/infrastructure/config"
	"github.com/seedlink/backend/internal/infrastructure/printing"
	"github.com/seedlink/backend/internal/infrastructure/printing/printingtest"
	"github.com/seedlink/backend/internal/infrastructure/storage"
	"github.com/seedlink/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingS3 struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (r *recordingS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func (r *recordingS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	return &s3.CreateBucketOutput{}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Name: "seedlink-catalogue", Env: "development", Port: "0"},
		HTTP: config.HTTPConfig{
			MaxBodySize: 1 << 20,
		},
		Printing: config.PrintingConfig{
			Engine:    config.EngineWkhtmltopdf,
			BaseDir:   t.TempDir(),
			PublicURL: "/api/v1/catalogues/files",
		},
		Storage: config.StorageConfig{Prefix: "catalogues"},
	}
}

func requestFor(shop string) catalogue.Request {
	return catalogue.Request{
		ShopName: shop,
		Location: "Paris",
		Products: []any{map[string]any{"name": "Widget", "price": 10}},
	}
}

func TestNewRenderer(t *testing.T) {
	log := zaptest.NewLogger(t)

	r, err := NewRenderer(&config.PrintingConfig{Engine: config.EngineWkhtmltopdf, BinaryPath: "/opt/wk/bin/wkhtmltopdf"}, log)
	require.NoError(t, err)
	wk, ok := r.(*printing.WkhtmltopdfRenderer)
	require.True(t, ok)
	assert.Equal(t, "/opt/wk/bin/wkhtmltopdf", wk.BinaryPath())

	r, err = NewRenderer(&config.PrintingConfig{Engine: config.EngineChromedp}, log)
	require.NoError(t, err)
	assert.IsType(t, &printing.ChromedpRenderer{}, r)
	assert.NoError(t, r.Close())

	_, err = NewRenderer(&config.PrintingConfig{Engine: "prince"}, log)
	assert.Error(t, err)
}

func TestNewServices(t *testing.T) {
	cfg := testConfig(t)
	renderer := printingtest.NewRenderer()

	s, err := NewServices(context.Background(), cfg, zaptest.NewLogger(t), WithRenderer(renderer))
	require.NoError(t, err)

	assert.Same(t, renderer, s.Renderer)
	assert.Nil(t, s.Publisher)
	assert.Equal(t, filepath.Join(cfg.Printing.BaseDir, printing.StaticDirName), s.Output.Dir())

	require.NoError(t, s.Close())
	assert.True(t, renderer.Closed())
}

func TestNewServices_TemplateOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.Printing.TemplateDir = t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Printing.TemplateDir, printing.CatalogueTemplateName),
		[]byte(`<html><body>custom {{.shop_name}}</body></html>`), 0o644))

	renderer := printingtest.NewRenderer()
	s, err := NewServices(context.Background(), cfg, nil, WithRenderer(renderer))
	require.NoError(t, err)

	html, err := s.Generator.Preview(context.Background(), requestFor("Acme"))
	require.NoError(t, err)
	assert.Equal(t, "<html><body>custom Acme</body></html>", html)
}

func TestNewServices_BrokenTemplate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Printing.TemplateDir = t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Printing.TemplateDir, printing.CatalogueTemplateName),
		[]byte(`{{.shop_name`), 0o644))

	_, err := NewServices(context.Background(), cfg, nil, WithRenderer(printingtest.NewRenderer()))
	assert.ErrorContains(t, err, "load catalogue template")
}

func TestNewServices_WithStorage(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageConfig{
		Enabled:   true,
		Bucket:    "catalogues",
		AccessKey: "key",
		SecretKey: "secret",
		Prefix:    "shops",
	}
	fake := &recordingS3{}

	s, err := NewServices(context.Background(), cfg, zaptest.NewLogger(t),
		WithRenderer(printingtest.NewRenderer()),
		WithS3Options(storage.WithClient(fake)))
	require.NoError(t, err)
	require.NotNil(t, s.Publisher)

	doc, err := s.Generator.GenerateDocument(context.Background(), requestFor("Acme"))
	require.NoError(t, err)
	assert.Equal(t, "shops/"+doc.FileName, doc.ObjectKey)
	assert.Equal(t, []string{"shops/" + doc.FileName}, fake.keys)
}

func TestNewEngine_Routes(t *testing.T) {
	cfg := testConfig(t)
	renderer := printingtest.NewRenderer()
	s, err := NewServices(context.Background(), cfg, zaptest.NewLogger(t), WithRenderer(renderer))
	require.NoError(t, err)

	engine := NewEngine(s)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body := `{"shop_name":"Acme","location":"Paris","products":[{"name":"Widget","price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalogues", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			Path string `json:"path"`
			URL  string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.Data.Path, s.Output.Dir()))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, created.Data.URL, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestNewServices_TelemetryDisabledByDefault(t *testing.T) {
	s, err := NewServices(context.Background(), testConfig(t), nil, WithRenderer(printingtest.NewRenderer()))
	require.NoError(t, err)

	require.NotNil(t, s.Tracer)
	assert.False(t, s.Tracer.IsEnabled())
	assert.NoError(t, s.Close())
}

func TestNewEngine_TracesCatalogueRequests(t *testing.T) {
	prev := otel.GetTracerProvider()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	cfg := testConfig(t)
	s, err := NewServices(context.Background(), cfg, nil, WithRenderer(printingtest.NewRenderer()))
	require.NoError(t, err)
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.ServiceName = "seedlink-catalogue"

	body := `{"shop_name":"Acme","location":"Paris","products":[{"name":"Widget","price":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalogues", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewEngine(s).ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	byName := map[string]sdktrace.ReadOnlySpan{}
	var server sdktrace.ReadOnlySpan
	for _, span := range sr.Ended() {
		byName[span.Name()] = span
		if strings.Contains(span.Name(), "/api/v1/catalogues") {
			server = span
		}
	}
	require.NotNil(t, server)
	require.Contains(t, byName, "catalogue.Generate")
	assert.Contains(t, byName, "catalogue.RenderPDF")
	assert.Equal(t, server.SpanContext().SpanID(), byName["catalogue.Generate"].Parent().SpanID())
}

func TestNewEngine_BodyLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.MaxBodySize = 16
	s, err := NewServices(context.Background(), cfg, nil, WithRenderer(printingtest.NewRenderer()))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalogues",
		strings.NewReader(`{"shop_name":"a very long shop name indeed"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewEngine(s).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewServices(context.Background(), cfg, nil, WithRenderer(printingtest.NewRenderer()))
	require.NoError(t, err)

	srv := NewHTTPServer(s)
	srv.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, Serve(ctx, srv, zap.NewNop()))
}

func TestServe_HandlesRequestsUntilCancelled(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewServices(context.Background(), cfg, nil, WithRenderer(printingtest.NewRenderer()))
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := NewHTTPServer(s)
	srv.Addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, zap.NewNop()) }()

	testutil.RequireEventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-testutil.ContextWithTimeout(t, 10*time.Second).Done():
		t.Fatal("server did not shut down")
	}
}
