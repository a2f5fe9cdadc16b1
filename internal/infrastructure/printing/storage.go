package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// StaticDirName is the directory under the base dir that holds generated PDFs
	StaticDirName = "static"
	// FilePrefix and FileExt frame every generated file name
	FilePrefix = "catalogue_"
	FileExt    = ".pdf"
)

var (
	// ErrInvalidFileName is returned for names that are not plain PDF file names
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrFileNotFound is returned when a generated file does not exist
	ErrFileNotFound = errors.New("PDF not found")
)

// OutputDirConfig contains configuration for the output directory
type OutputDirConfig struct {
	// BaseDir is the application base directory. PDFs are written to {BaseDir}/static.
	// Default: current working directory
	BaseDir string
	// BaseURL is the URL prefix for downloading PDFs
	// Example: https://shop.example.com/api/v1/catalogues/files
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// OutputDir allocates and serves generated PDF files on the local file system
type OutputDir struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// StoredFile describes a generated PDF on disk
type StoredFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// NewOutputDir creates the static directory if needed
func NewOutputDir(config *OutputDirConfig) (*OutputDir, error) {
	if config == nil {
		config = &OutputDirConfig{}
	}

	baseDir := config.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "/api/v1/catalogues/files"
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Join(baseDir, StaticDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create output directory: %s", dir), err)
	}

	return &OutputDir{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Dir returns the directory generated PDFs are written to
func (d *OutputDir) Dir() string {
	return d.dir
}

// NewPath allocates a fresh output file name and its full path.
// Names are catalogue_<uuid v4 as 32 lowercase hex>.pdf.
func (d *OutputDir) NewPath() (name, path string) {
	name = FilePrefix + strings.ReplaceAll(uuid.New().String(), "-", "") + FileExt
	return name, filepath.Join(d.dir, name)
}

// Stat returns information about a generated file
func (d *OutputDir) Stat(ctx context.Context, name string) (*StoredFile, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := d.resolve(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", ErrFileNotFound)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to stat PDF file", err)
	}
	if info.IsDir() {
		return nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", ErrFileNotFound)
	}

	return &StoredFile{
		Name:    name,
		Path:    fullPath,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Open opens a generated file for reading
func (d *OutputDir) Open(ctx context.Context, name string) (io.ReadCloser, *StoredFile, error) {
	stored, err := d.Stat(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(stored.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", ErrFileNotFound)
		}
		return nil, nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}

	return file, stored, nil
}

// URL returns the accessible URL for a generated PDF
func (d *OutputDir) URL(name string) string {
	return fmt.Sprintf("%s/%s", d.baseURL, name)
}

// resolve validates a file name and returns its full path inside the directory
func (d *OutputDir) resolve(name string) (string, error) {
	if name == "" || containsDotDot(name) || filepath.IsAbs(name) ||
		filepath.Base(name) != name || filepath.Ext(name) != FileExt {
		d.logger.Warn("blocked potentially malicious file name", zap.String("name", name))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", ErrInvalidFileName)
	}

	fullPath := filepath.Join(d.dir, name)

	// Verify the resolved path is still under the output directory
	absBase, err := filepath.Abs(d.dir)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		d.logger.Warn("path escape attempt blocked",
			zap.String("name", name),
			zap.String("absPath", absPath),
			zap.String("absBase", absBase))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", ErrInvalidFileName)
	}

	return fullPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	// Split by both forward and backward slashes for cross-platform support
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}
