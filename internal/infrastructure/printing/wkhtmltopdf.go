package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/seedlink/backend/internal/domain/catalogue"
	"go.uber.org/zap"
)

const (
	windowsBinaryPath = `D:\Program Files\wkhtmltopdf\bin\wkhtmltopdf.exe`
	unixBinaryPath    = "/usr/bin/wkhtmltopdf"
)

// DefaultBinaryPath returns the wkhtmltopdf location used when none is
// configured, chosen by host operating system (runtime.GOOS value).
func DefaultBinaryPath(goos string) string {
	if goos == "windows" {
		return windowsBinaryPath
	}
	return unixBinaryPath
}

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is the path to the wkhtmltopdf binary.
	// A bare name is searched in PATH.
	BinaryPath string
	// DefaultTimeout for rendering operations. Zero means no timeout.
	DefaultTimeout time.Duration
	// Logger for debug output
	Logger *zap.Logger
}

// WkhtmltopdfRenderer renders HTML to PDF using wkhtmltopdf command-line tool.
// HTML is streamed on stdin and the binary writes the PDF straight to the
// requested output path.
type WkhtmltopdfRenderer struct {
	config    *WkhtmltopdfConfig
	logger    *zap.Logger
	binaryErr error
}

// NewWkhtmltopdfRenderer creates a new wkhtmltopdf-based PDF renderer.
// The binary path is resolved once here. A missing binary does not fail
// construction; every Render call then reports ErrCodeBinaryNotFound.
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) *WkhtmltopdfRenderer {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}
	if config.BinaryPath == "" {
		config.BinaryPath = DefaultBinaryPath(runtime.GOOS)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &WkhtmltopdfRenderer{
		config: config,
		logger: logger,
	}

	binaryPath, err := resolveBinaryPath(config.BinaryPath)
	if err != nil {
		r.binaryErr = err
		logger.Warn("wkhtmltopdf binary not found, catalogue rendering will fail",
			zap.String("binary", config.BinaryPath),
			zap.Error(err))
	} else {
		config.BinaryPath = binaryPath
	}

	return r
}

// BinaryPath returns the resolved path of the wkhtmltopdf executable
func (r *WkhtmltopdfRenderer) BinaryPath() string {
	return r.config.BinaryPath
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) || strings.Contains(path, `\`) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}

	return exec.LookPath(path)
}

// Render converts HTML content to a PDF file at req.OutputPath
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRenderRequest(req); err != nil {
		return nil, err
	}
	if r.binaryErr != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", r.config.BinaryPath), r.binaryErr)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := r.buildArgs(req)

	r.logger.Debug("executing wkhtmltopdf",
		zap.String("binary", r.config.BinaryPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.config.BinaryPath, args...)
	cmd.Stdin = strings.NewReader(req.HTML)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		r.logger.Error("wkhtmltopdf failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
			zap.String("stdout", stdout.String()))

		return nil, NewRenderError(ErrCodeRenderFailed,
			"wkhtmltopdf execution failed: "+strings.TrimSpace(stderr.String()), err)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF not found", err)
	}
	if info.Size() == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered successfully",
		zap.String("path", req.OutputPath),
		zap.Int64("bytes", info.Size()),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		Path:           req.OutputPath,
		Size:           info.Size(),
		RenderDuration: renderDuration,
	}, nil
}

// buildArgs constructs the command-line arguments for wkhtmltopdf.
// The input is "-" (stdin) and the output path is always the last argument.
func (r *WkhtmltopdfRenderer) buildArgs(req *RenderRequest) []string {
	page := req.Page
	encoding := page.Encoding
	if encoding == "" {
		encoding = "UTF-8"
	}

	args := []string{
		"--quiet",
		"--page-size", page.PaperSize.String(),
		"--margin-top", catalogue.InchArg(page.Margins.Top),
		"--margin-right", catalogue.InchArg(page.Margins.Right),
		"--margin-bottom", catalogue.InchArg(page.Margins.Bottom),
		"--margin-left", catalogue.InchArg(page.Margins.Left),
		"--encoding", encoding,
	}

	if page.Outline {
		args = append(args, "--outline")
	} else {
		args = append(args, "--no-outline")
	}

	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}

	return append(args, "-", req.OutputPath)
}

// Close releases resources (no-op for wkhtmltopdf)
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

// Ensure WkhtmltopdfRenderer implements PDFRenderer
var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
