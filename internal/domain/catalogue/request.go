package catalogue

// Template variable names. They are the contract with catalogue_template.html.
const (
	VarShopName        = "shop_name"
	VarLocation        = "location"
	VarProducts        = "products"
	VarPrimaryColor    = "primary_color"
	VarSecondaryColor  = "secondary_color"
	VarTextColor       = "text_color"
	VarBackgroundColor = "background_color"
	VarFontFamily      = "font_family"
	VarLayout          = "layout"
)

// Request is a request to generate one catalogue.
// Products are opaque to the generator; their shape is agreed between the
// caller and the template.
type Request struct {
	ShopName string
	Location string
	Products []any
	Style    Style
}

// TemplateData returns the values bound to the catalogue template, with
// default styling applied to omitted options.
func (r Request) TemplateData() map[string]any {
	style := r.Style.WithDefaults()
	products := r.Products
	if products == nil {
		products = []any{}
	}
	return map[string]any{
		VarShopName:        r.ShopName,
		VarLocation:        r.Location,
		VarProducts:        products,
		VarPrimaryColor:    style.PrimaryColor,
		VarSecondaryColor:  style.SecondaryColor,
		VarTextColor:       style.TextColor,
		VarBackgroundColor: style.BackgroundColor,
		VarFontFamily:      style.FontFamily,
		VarLayout:          string(style.Layout),
	}
}
