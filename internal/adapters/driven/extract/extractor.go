// Package extract converts uploaded files into ordered page texts.
//
// Dispatch is by MIME type with a file-extension fallback. PDF files
// go through a local PDF text library with pagination preserved;
// text-like formats are read whole as a single unpaginated page.
// A remote OCR/layout service would slot in as another implementation
// of the TextExtractor port; it is deliberately not part of this core.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor dispatches extraction by file format.
type Extractor struct{}

// New creates a format-dispatching text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the document text as ordered pages.
func (e *Extractor) Extract(ctx context.Context, path, mime string) ([]domain.Page, error) {
	switch {
	case isPDF(path, mime):
		return extractPDF(ctx, path)
	case isTextLike(path, mime):
		return extractPlaintext(path)
	default:
		return nil, domain.ErrUnsupportedType
	}
}

// isPDF matches PDF by MIME type or extension.
func isPDF(path, mime string) bool {
	if strings.EqualFold(mime, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// isTextLike matches formats read whole as text.
func isTextLike(path, mime string) bool {
	mime = strings.ToLower(mime)
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".csv", ".log":
		return true
	}
	return false
}
