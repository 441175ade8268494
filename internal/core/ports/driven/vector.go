package driven

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// VectorStore provides per-document similarity search.
//
// Each document owns one isolated index built once at ingest and read
// thereafter. There is no cross-document search and no in-place update:
// re-ingesting a document replaces its index wholesale.
type VectorStore interface {
	// Build creates the index for a document from the full chunk set.
	// Embeddings must be one vector per chunk, same order, same
	// dimensionality; returns domain.ErrShapeMismatch otherwise.
	// Vectors are L2-normalized before insertion so inner-product
	// search is cosine similarity.
	Build(ctx context.Context, documentID string, chunks []domain.Chunk, embeddings [][]float32) error

	// Search returns up to k hits ordered by descending similarity,
	// with Rank assigned 1..N by result order and the stored chunk
	// metadata attached. A document with no built index yields an
	// empty result, not an error.
	Search(ctx context.Context, documentID string, query []float32, k int) ([]domain.RetrievedSource, error)

	// Delete removes a document's index and chunk metadata together.
	// Deleting a document that has no index is not an error.
	Delete(ctx context.Context, documentID string) error
}
