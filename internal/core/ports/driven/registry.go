package driven

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// DocumentRegistry persists per-document ingest metadata.
// Backed by SQLite. Index artifacts themselves live in the VectorStore;
// the registry records that a document exists and what was detected
// about it.
type DocumentRegistry interface {
	// Save stores a document record. Records are written once per
	// ingest and replaced wholesale on re-ingest.
	Save(ctx context.Context, rec domain.DocumentRecord) error

	// Get retrieves a document record by ID.
	// Returns domain.ErrNotFound when the document does not exist.
	Get(ctx context.Context, id string) (*domain.DocumentRecord, error)

	// List returns all document records, newest first.
	List(ctx context.Context) ([]domain.DocumentRecord, error)

	// Delete removes a document record by ID.
	Delete(ctx context.Context, id string) error
}
