package driving

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// IngestService ingests a document end to end: extraction, chunking,
// embedding, index build and registry bookkeeping.
type IngestService interface {
	// Ingest processes one file and returns its registry record.
	// Returns domain.ErrEmptyDocument when no chunkable text was found.
	Ingest(ctx context.Context, path, filename, mime string) (*domain.DocumentRecord, error)

	// Delete removes a document: registry record and index artifacts.
	Delete(ctx context.Context, documentID string) error
}

// RetrievalService retrieves and reranks sources for a question
// against one document.
type RetrievalService interface {
	// Retrieve returns up to topK reranked sources. An unknown
	// document yields an empty result, not an error.
	Retrieve(ctx context.Context, documentID, question string, topK int) ([]domain.RetrievedSource, error)
}

// AskService answers a question against one document, applying
// guardrails and confidence calibration.
type AskService interface {
	// Ask retrieves sources, gates them through guardrails and
	// produces a grounded answer with a calibrated confidence.
	Ask(ctx context.Context, documentID, question string) (*domain.Answer, error)
}
