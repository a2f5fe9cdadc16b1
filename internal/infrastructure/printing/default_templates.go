package printing

import (
	"embed"
	"fmt"
	"path"
)

// CatalogueTemplateName is the file name of the catalogue template
const CatalogueTemplateName = "catalogue_template.html"

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplateContent loads an embedded template by file name
func LoadTemplateContent(name string) (string, error) {
	content, err := templateFS.ReadFile(path.Join("templates", name))
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", name, err)
	}
	return string(content), nil
}
