package catalogue

import (
	"errors"

	infra "github.com/seedlink/backend/internal/infrastructure/printing"
)

// ErrRenderFailure matches every *RenderFailure via errors.Is
var ErrRenderFailure = errors.New("PDF generation failed")

// RenderFailure reports that the HTML-to-PDF conversion failed.
// The renderer's original error is kept as Cause.
type RenderFailure struct {
	Cause error
}

func (e *RenderFailure) Error() string {
	if e.Cause == nil {
		return ErrRenderFailure.Error()
	}
	return ErrRenderFailure.Error() + ": " + e.Cause.Error()
}

func (e *RenderFailure) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrRenderFailure) true for any RenderFailure
func (e *RenderFailure) Is(target error) bool {
	return target == ErrRenderFailure
}

// Code returns the renderer error code, or RENDER_FAILED when the cause
// carries none
func (e *RenderFailure) Code() string {
	var renderErr *infra.RenderError
	if errors.As(e.Cause, &renderErr) && renderErr.Code != "" {
		return renderErr.Code
	}
	return infra.ErrCodeRenderFailed
}
