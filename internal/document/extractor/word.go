package extractor

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// WordExtractor extracts plain text from Word documents
type WordExtractor struct{}

// NewWordExtractor creates a new Word extractor
func NewWordExtractor() *WordExtractor {
	return &WordExtractor{}
}

// Extract joins the text of every paragraph with a newline, preserving
// paragraph order.
func (e *WordExtractor) Extract(ctx context.Context, reader io.Reader) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var paragraphs []string

	for _, para := range doc.Paragraphs() {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		var paraText strings.Builder
		for _, run := range para.Runs() {
			paraText.WriteString(run.Text())
		}
		paragraphs = append(paragraphs, paraText.String())
	}

	return strings.Join(paragraphs, "\n"), nil
}
