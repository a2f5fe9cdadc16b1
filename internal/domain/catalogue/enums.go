package catalogue

// Layout is the arrangement of product cards in the catalogue.
// Values are passed to the template as-is; unknown layouts are not rejected.
type Layout string

const (
	LayoutRow    Layout = "row"
	LayoutGrid   Layout = "grid"
	LayoutColumn Layout = "column"
)

// IsKnown reports whether the layout is one the bundled template styles.
func (l Layout) IsKnown() bool {
	switch l {
	case LayoutRow, LayoutGrid, LayoutColumn:
		return true
	}
	return false
}

// String returns the string representation of Layout
func (l Layout) String() string {
	return string(l)
}

// PaperSize represents the paper size of the generated document
type PaperSize string

// PaperSizeA4 is the only size catalogues are printed on (210mm x 297mm)
const PaperSizeA4 PaperSize = "A4"

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	return 210, 297
}
