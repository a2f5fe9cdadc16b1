package printing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTemplateStore(t *testing.T) {
	t.Run("creates store with nil config", func(t *testing.T) {
		store := NewTemplateStore(nil)
		require.NotNil(t, store)
		assert.Empty(t, store.ExternalDir())
	})

	t.Run("keeps external dir", func(t *testing.T) {
		store := NewTemplateStore(&TemplateStoreConfig{ExternalDir: "/tmp/templates"})
		assert.Equal(t, "/tmp/templates", store.ExternalDir())
	})
}

func TestTemplateStore_Get_Embedded(t *testing.T) {
	store := NewTemplateStore(nil)

	tmpl, err := store.Get(CatalogueTemplateName)
	require.NoError(t, err)
	assert.Equal(t, CatalogueTemplateName, tmpl.Name)
	assert.Equal(t, "embedded", tmpl.Source)
	assert.Contains(t, tmpl.Content, "{{.shop_name}}")
}

func TestTemplateStore_Get_ExternalDirOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CatalogueTemplateName)
	require.NoError(t, os.WriteFile(path, []byte("<h1>{{.shop_name}}</h1>"), 0o644))

	store := NewTemplateStore(&TemplateStoreConfig{ExternalDir: dir, Logger: zaptest.NewLogger(t)})

	tmpl, err := store.Get(CatalogueTemplateName)
	require.NoError(t, err)
	assert.Equal(t, path, tmpl.Source)
	assert.Equal(t, "<h1>{{.shop_name}}</h1>", tmpl.Content)
}

func TestTemplateStore_Get_FallbackWhenMissingFromDir(t *testing.T) {
	store := NewTemplateStore(&TemplateStoreConfig{ExternalDir: t.TempDir(), Logger: zaptest.NewLogger(t)})

	tmpl, err := store.Get(CatalogueTemplateName)
	require.NoError(t, err)
	assert.Equal(t, "embedded", tmpl.Source)
}

func TestTemplateStore_Get_Unknown(t *testing.T) {
	store := NewTemplateStore(nil)

	_, err := store.Get("missing.html")
	assert.Error(t, err)
}

func TestTemplateStore_Get_InvalidName(t *testing.T) {
	store := NewTemplateStore(&TemplateStoreConfig{ExternalDir: t.TempDir()})

	for _, name := range []string{"", "..", "../secret.html", "sub/catalogue_template.html"} {
		_, err := store.Get(name)
		assert.ErrorIs(t, err, ErrInvalidTemplateName, name)
	}
}

func TestTemplateStore_CachesTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CatalogueTemplateName)
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	store := NewTemplateStore(&TemplateStoreConfig{ExternalDir: dir})

	first, err := store.Get(CatalogueTemplateName)
	require.NoError(t, err)
	assert.Equal(t, "v1", first.Content)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))

	cached, err := store.Get(CatalogueTemplateName)
	require.NoError(t, err)
	assert.Equal(t, "v1", cached.Content)
	assert.Same(t, first, cached)
}

func TestLoadCatalogueTemplate(t *testing.T) {
	compiled, err := LoadCatalogueTemplate(NewTemplateStore(nil), NewTemplateEngine())
	require.NoError(t, err)
	assert.Equal(t, CatalogueTemplateName, compiled.Name())
}

func TestLoadCatalogueTemplate_ParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogueTemplateName), []byte("{{.shop_name"), 0o644))

	_, err := LoadCatalogueTemplate(NewTemplateStore(&TemplateStoreConfig{ExternalDir: dir}), NewTemplateEngine())
	assert.Error(t, err)
}
