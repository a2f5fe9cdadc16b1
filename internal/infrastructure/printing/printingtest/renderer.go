// Package printingtest provides a PDFRenderer double for tests.
package printingtest

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/seedlink/backend/internal/infrastructure/printing"
	"github.com/seedlink/backend/tests/testutil"
)

// Renderer records every request and writes a real PDF to the output path.
// Set Err to make Render fail without touching the file system.
type Renderer struct {
	// Pages is the number of pages written per render (default 1)
	Pages int
	// Err, when set, is returned from Render
	Err error

	mu       sync.Mutex
	requests []printing.RenderRequest
	closed   bool
}

// NewRenderer creates a renderer that succeeds
func NewRenderer() *Renderer {
	return &Renderer{Pages: 1}
}

// NewFailingRenderer creates a renderer that always returns err
func NewFailingRenderer(err error) *Renderer {
	return &Renderer{Pages: 1, Err: err}
}

// Render implements printing.PDFRenderer
func (r *Renderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	start := time.Now()

	r.mu.Lock()
	r.requests = append(r.requests, *req)
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}

	data, err := testutil.BuildPDF(r.Pages, req.Title)
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeRenderFailed, "failed to build PDF", err)
	}
	if err := os.WriteFile(req.OutputPath, data, 0o644); err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeRenderFailed, "failed to write PDF file", err)
	}

	return &printing.RenderResult{
		Path:           req.OutputPath,
		Size:           int64(len(data)),
		RenderDuration: time.Since(start),
	}, nil
}

// Close implements printing.PDFRenderer
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Requests returns a copy of the recorded requests
func (r *Renderer) Requests() []printing.RenderRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]printing.RenderRequest, len(r.requests))
	copy(out, r.requests)
	return out
}

// LastHTML returns the HTML of the most recent request, or "" if none
func (r *Renderer) LastHTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return ""
	}
	return r.requests[len(r.requests)-1].HTML
}

// Closed reports whether Close was called
func (r *Renderer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

var _ printing.PDFRenderer = (*Renderer)(nil)
