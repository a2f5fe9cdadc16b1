package printing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrInvalidTemplateName is returned for template names that are not plain file names
var ErrInvalidTemplateName = errors.New("invalid template name")

// TemplateStore manages HTML templates.
// It supports loading from an external directory (for customization)
// with fallback to embedded templates.
type TemplateStore struct {
	externalDir string
	logger      *zap.Logger
	cache       map[string]*StoredTemplate
	mu          sync.RWMutex
}

// StoredTemplate is a loaded template with its origin
type StoredTemplate struct {
	Name    string
	Content string
	// Source is the file path the content was read from, or "embedded"
	Source string
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir is the directory to load templates from.
	// If empty or the file doesn't exist there, embedded templates are used.
	ExternalDir string
	Logger      *zap.Logger
}

// NewTemplateStore creates a new template store
func NewTemplateStore(config *TemplateStoreConfig) *TemplateStore {
	store := &TemplateStore{
		logger: zap.NewNop(),
		cache:  make(map[string]*StoredTemplate),
	}

	if config != nil {
		store.externalDir = config.ExternalDir
		if config.Logger != nil {
			store.logger = config.Logger
		}
	}

	return store
}

// Get returns a template by file name, loading it on first use
func (s *TemplateStore) Get(name string) (*StoredTemplate, error) {
	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}

	loaded, err := s.load(name)
	if err != nil {
		return nil, err
	}
	s.cache[name] = loaded
	return loaded, nil
}

// load reads template content from the external dir or embedded
func (s *TemplateStore) load(name string) (*StoredTemplate, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}

	// Try external directory first
	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, name)
		content, err := os.ReadFile(externalPath)
		if err == nil {
			s.logger.Info("Loaded template from directory",
				zap.String("template", name),
				zap.String("path", externalPath))
			return &StoredTemplate{Name: name, Content: string(content), Source: externalPath}, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read template %s: %w", externalPath, err)
		}
		s.logger.Debug("Template not found in directory, using embedded copy",
			zap.String("template", name),
			zap.String("dir", s.externalDir))
	}

	content, err := LoadTemplateContent(name)
	if err != nil {
		return nil, err
	}
	return &StoredTemplate{Name: name, Content: content, Source: "embedded"}, nil
}

// ExternalDir returns the configured external template directory
func (s *TemplateStore) ExternalDir() string {
	return s.externalDir
}

// LoadCatalogueTemplate loads and compiles the catalogue template once
func LoadCatalogueTemplate(store *TemplateStore, engine *TemplateEngine) (*CompiledTemplate, error) {
	stored, err := store.Get(CatalogueTemplateName)
	if err != nil {
		return nil, err
	}
	return engine.Compile(stored.Name, stored.Content)
}
