package extractor

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF documents
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads the whole document and concatenates the text of every
// page in page order. A document the library cannot open is an error;
// pages that fail individual text extraction are skipped.
func (e *PDFExtractor) Extract(ctx context.Context, reader io.Reader) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var text strings.Builder

	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		pageText, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
	}

	return text.String(), nil
}
