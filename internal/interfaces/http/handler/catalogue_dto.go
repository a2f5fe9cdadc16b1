package handler

import (
	catalogueapp "github.com/seedlink/backend/internal/application/catalogue"
	"github.com/seedlink/backend/internal/domain/catalogue"
)

// GenerateCatalogueRequest is the body of the generate and preview endpoints.
// Style fields left empty take their default values.
type GenerateCatalogueRequest struct {
	ShopName        string `json:"shop_name"`
	Location        string `json:"location"`
	Products        []any  `json:"products"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
	FontFamily      string `json:"font_family"`
	Layout          string `json:"layout"`
}

// ToDomain converts the body to a catalogue request
func (r *GenerateCatalogueRequest) ToDomain() catalogue.Request {
	return catalogue.Request{
		ShopName: r.ShopName,
		Location: r.Location,
		Products: r.Products,
		Style: catalogue.Style{
			PrimaryColor:    r.PrimaryColor,
			SecondaryColor:  r.SecondaryColor,
			TextColor:       r.TextColor,
			BackgroundColor: r.BackgroundColor,
			FontFamily:      r.FontFamily,
			Layout:          catalogue.Layout(r.Layout),
		},
	}
}

// CatalogueResponse describes a generated catalogue PDF
type CatalogueResponse struct {
	Path       string `json:"path"`
	FileName   string `json:"file_name"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
	PageCount  int    `json:"page_count"`
	ObjectKey  string `json:"object_key,omitempty"`
	RenderTime int64  `json:"render_time_ms"`
}

// NewCatalogueResponse converts a generated document to its response form
func NewCatalogueResponse(doc *catalogueapp.Document) CatalogueResponse {
	return CatalogueResponse{
		Path:       doc.Path,
		FileName:   doc.FileName,
		URL:        doc.URL,
		Size:       doc.Size,
		PageCount:  doc.PageCount,
		ObjectKey:  doc.ObjectKey,
		RenderTime: doc.RenderDuration.Milliseconds(),
	}
}

// PreviewResponse carries the rendered catalogue HTML
type PreviewResponse struct {
	HTML string `json:"html"`
}
