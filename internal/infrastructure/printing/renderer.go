package printing

import (
	"context"
	"time"

	"github.com/seedlink/backend/internal/domain/catalogue"
)

// RenderRequest contains the parameters for rendering HTML to a PDF file
type RenderRequest struct {
	// HTML content to render
	HTML string
	// OutputPath is where the PDF is written
	OutputPath string
	// Page is the paper size, margins, encoding and outline setting
	Page catalogue.PageSetup
	// Title for the PDF document metadata (optional)
	Title string
	// Timeout overrides the renderer's default timeout. Zero means none.
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// Path of the written PDF
	Path string
	// Size of the written PDF in bytes
	Size int64
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to a PDF file
type PDFRenderer interface {
	// Render converts HTML content to a PDF document at req.OutputPath
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeBinaryNotFound   = "BINARY_NOT_FOUND"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// validateRenderRequest holds the checks shared by all renderers
func validateRenderRequest(req *RenderRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if req.OutputPath == "" {
		return NewRenderError(ErrCodeRenderFailed, "output path is empty", nil)
	}
	if !req.Page.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.Page.PaperSize), nil)
	}
	return nil
}
