package document

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/veriplagio/veriplagio/internal/document/extractor"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = fmt.Errorf("file size exceeds maximum allowed size")

// ContentType represents supported document content types
type ContentType string

const (
	ContentTypePDF     ContentType = "application/pdf"
	ContentTypeWord    ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeUnknown ContentType = ""
)

// Processor converts uploaded documents into plain text
type Processor struct {
	pdfExtractor    *extractor.PDFExtractor
	wordExtractor   *extractor.WordExtractor
	logger          *log.Logger
	maxDocumentSize int64
}

// NewProcessor creates a new document processor
func NewProcessor(logger *log.Logger, maxDocumentSize int64) *Processor {
	return &Processor{
		pdfExtractor:    extractor.NewPDFExtractor(),
		wordExtractor:   extractor.NewWordExtractor(),
		logger:          logger,
		maxDocumentSize: maxDocumentSize,
	}
}

// ExtractFile extracts plain text from an uploaded file based on its
// extension. Extensions outside the pdf/docx allow-list produce empty
// text and no error; a corrupt or unreadable file propagates the
// extraction error.
func (p *Processor) ExtractFile(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > p.maxDocumentSize {
		return "", ErrFileTooLarge
	}

	switch DetermineContentType(header.Filename) {
	case ContentTypePDF:
		return p.pdfExtractor.Extract(ctx, file)
	case ContentTypeWord:
		return p.wordExtractor.Extract(ctx, file)
	default:
		p.logger.Printf("Unsupported file type for %q, treating as empty text", header.Filename)
		return "", nil
	}
}

// DetermineContentType maps a filename extension to a content type.
func DetermineContentType(filename string) ContentType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ContentTypePDF
	case ".docx":
		return ContentTypeWord
	default:
		return ContentTypeUnknown
	}
}
