package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seedlink/backend/internal/bootstrap"
	"github.com/seedlink/backend/internal/infrastructure/config"
	"github.com/seedlink/backend/internal/infrastructure/printing/printingtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testApp runs from an empty directory with output under it and a fake renderer
func testApp(t *testing.T) (*app, *printingtest.Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SEEDLINK_PRINTING_BASE_DIR", dir)

	renderer := printingtest.NewRenderer()
	a := newApp()
	a.buildServices = func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*bootstrap.Services, error) {
		return bootstrap.NewServices(ctx, cfg, zap.NewNop(), bootstrap.WithRenderer(renderer))
	}
	return a, renderer, dir
}

func execute(a *app, stdin string, args ...string) (string, error) {
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	a, renderer, dir := testApp(t)

	productsPath := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(productsPath,
		[]byte(`[{"name":"Widget","price":1999.5},{"name":"Gadget","price":"12"}]`), 0o644))

	out, err := execute(a, "", "generate",
		"--shop", "Acme", "--location", "Paris",
		"--products", productsPath,
		"--layout", "grid", "--primary-color", "#ff0000")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Regexp(t, `static[/\\]catalogue_[0-9a-f]{32}\.pdf$`, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	html := renderer.LastHTML()
	assert.Contains(t, html, "Acme")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "1,999.50")
	assert.Contains(t, html, "#ff0000")
	assert.Contains(t, html, `data-layout="grid"`)
	assert.True(t, renderer.Closed())
}

func TestGenerateCommand_UnknownLayoutWarns(t *testing.T) {
	a, renderer, _ := testApp(t)

	out, err := execute(a, "", "generate", "--shop", "Acme", "--layout", "diagonal")
	require.NoError(t, err)

	assert.Contains(t, out, `warning: layout "diagonal" is not styled by the bundled template`)
	assert.Contains(t, renderer.LastHTML(), `data-layout="diagonal"`)
}

func TestGenerateCommand_KnownLayoutDoesNotWarn(t *testing.T) {
	a, _, _ := testApp(t)

	out, err := execute(a, "", "generate", "--shop", "Acme", "--layout", "column")
	require.NoError(t, err)

	assert.NotContains(t, out, "warning:")
}

func TestGenerateCommand_ProductsFromStdin(t *testing.T) {
	a, renderer, _ := testApp(t)

	_, err := execute(a, `[{"name":"Piped"}]`, "generate", "--shop", "Acme", "--products", "-")
	require.NoError(t, err)

	assert.Contains(t, renderer.LastHTML(), "Piped")
}

func TestGenerateCommand_JSONOutput(t *testing.T) {
	a, _, _ := testApp(t)

	out, err := execute(a, "", "generate", "--shop", "Acme", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got["path"])
	assert.Regexp(t, `^catalogue_[0-9a-f]{32}\.pdf$`, got["file_name"])
	assert.EqualValues(t, 1, got["page_count"])
}

func TestGenerateCommand_BadProducts(t *testing.T) {
	a, renderer, dir := testApp(t)

	_, err := execute(a, "", "generate", "--products", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "open products file")

	_, err = execute(a, `{"not":"an array"}`, "generate", "--products", "-")
	assert.ErrorContains(t, err, "decode products")

	assert.Empty(t, renderer.Requests())
}

func TestGenerateCommand_RenderFailure(t *testing.T) {
	a, renderer, _ := testApp(t)
	renderer.Err = assert.AnError

	_, err := execute(a, "", "generate", "--shop", "Acme")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "PDF generation failed: "), err.Error())
}

func TestVersionCommand(t *testing.T) {
	a, _, _ := testApp(t)

	out, err := execute(a, "", "version")
	require.NoError(t, err)
	assert.Equal(t, bootstrap.Version, strings.TrimSpace(out))
}
