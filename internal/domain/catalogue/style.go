package catalogue

// Default style values applied when a caller omits a styling option.
const (
	DefaultPrimaryColor    = "#000000"
	DefaultSecondaryColor  = "#333333"
	DefaultTextColor       = "#000000"
	DefaultBackgroundColor = "#ffffff"
	DefaultFontFamily      = "Arial, sans-serif"
	DefaultLayout          = LayoutRow
)

// Style holds the styling options substituted into the catalogue template.
// No format checking is done on any field.
type Style struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
	FontFamily      string `json:"font_family"`
	Layout          Layout `json:"layout"`
}

// DefaultStyle returns the style used when no options are given
func DefaultStyle() Style {
	return Style{
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		TextColor:       DefaultTextColor,
		BackgroundColor: DefaultBackgroundColor,
		FontFamily:      DefaultFontFamily,
		Layout:          DefaultLayout,
	}
}

// WithDefaults returns a copy of s where every empty field is taken from DefaultStyle.
func (s Style) WithDefaults() Style {
	d := DefaultStyle()
	if s.PrimaryColor == "" {
		s.PrimaryColor = d.PrimaryColor
	}
	if s.SecondaryColor == "" {
		s.SecondaryColor = d.SecondaryColor
	}
	if s.TextColor == "" {
		s.TextColor = d.TextColor
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = d.BackgroundColor
	}
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	if s.Layout == "" {
		s.Layout = d.Layout
	}
	return s
}
