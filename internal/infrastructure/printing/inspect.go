package printing

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFInfo summarizes a generated PDF file
type PDFInfo struct {
	Pages int
	Size  int64
}

// InspectPDF opens a PDF file and reports its page count and size
func InspectPDF(path string) (info *PDFInfo, err error) {
	// The reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = NewRenderError(ErrCodeRenderFailed, "failed to inspect PDF", fmt.Errorf("%v", r))
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to open PDF", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to stat PDF", err)
	}

	return &PDFInfo{
		Pages: reader.NumPage(),
		Size:  stat.Size(),
	}, nil
}
