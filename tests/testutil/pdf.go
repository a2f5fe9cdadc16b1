package testutil

import (
	"bytes"
	"fmt"
	"os"

	"codeberg.org/go-pdf/fpdf"
)

// BuildPDF returns a small but valid A4 PDF with the given number of pages.
// Each page carries the text and its page number.
func BuildPDF(pages int, text string) ([]byte, error) {
	if pages < 1 {
		pages = 1
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(text, true)
	doc.SetFont("Helvetica", "", 16)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Cell(0, 10, fmt.Sprintf("%s - page %d", text, i))
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDF writes a PDF built by BuildPDF to path
func WritePDF(path string, pages int, text string) error {
	data, err := BuildPDF(pages, text)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
