package catalogue

import "strconv"

// Margins represents the page margins in inches
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformMargins returns margins with the same value on every side
func UniformMargins(inches float64) Margins {
	return Margins{Top: inches, Right: inches, Bottom: inches, Left: inches}
}

// InchArg formats a margin value the way wkhtmltopdf expects it, e.g. "0.5in".
func InchArg(inches float64) string {
	return strconv.FormatFloat(inches, 'f', -1, 64) + "in"
}

// PageSetup is the fixed set of options every catalogue is rendered with.
type PageSetup struct {
	PaperSize PaperSize
	Margins   Margins
	Encoding  string
	Outline   bool
}

// DefaultPageSetup returns A4, half-inch margins, UTF-8 and no outline.
func DefaultPageSetup() PageSetup {
	return PageSetup{
		PaperSize: PaperSizeA4,
		Margins:   UniformMargins(0.5),
		Encoding:  "UTF-8",
		Outline:   false,
	}
}
