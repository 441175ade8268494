package driven

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// TextExtractor converts an uploaded file into ordered page texts.
//
// Implementations dispatch on MIME type or file extension. A remote
// OCR/layout service and a local PDF library are both valid backends;
// the core only sees the resulting pages.
type TextExtractor interface {
	// Extract returns the document text as ordered pages.
	// Page numbers are nil for formats without pagination.
	// Returns domain.ErrUnsupportedType for unknown formats.
	Extract(ctx context.Context, path, mime string) ([]domain.Page, error)
}
