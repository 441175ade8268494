// Package memory provides an in-memory VectorStore for tests and for
// running without a data directory. Same build-once/query-many
// semantics as the file-backed store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docask-cli/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// docIndex is one document's immutable index snapshot.
type docIndex struct {
	vectors [][]float32
	chunks  []domain.Chunk
}

// Store is an in-memory per-document vector store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*docIndex
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*docIndex)}
}

// Build replaces the document's index with a fresh snapshot.
func (s *Store) Build(_ context.Context, documentID string, chunks []domain.Chunk, embeddings [][]float32) error {
	if _, err := vectorstore.ValidateShape(chunks, embeddings); err != nil {
		return err
	}

	idx := &docIndex{
		vectors: make([][]float32, len(embeddings)),
		chunks:  make([]domain.Chunk, len(chunks)),
	}
	for i, emb := range embeddings {
		idx.vectors[i] = vectorstore.Normalize(emb)
	}
	copy(idx.chunks, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[documentID] = idx
	return nil
}

// Search scans the document's snapshot for the k nearest chunks.
func (s *Store) Search(_ context.Context, documentID string, query []float32, k int) ([]domain.RetrievedSource, error) {
	s.mu.RLock()
	idx, ok := s.docs[documentID]
	s.mu.RUnlock()

	if !ok || k <= 0 || len(idx.vectors) == 0 {
		return nil, nil
	}

	if dim := len(idx.vectors[0]); len(query) != dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			domain.ErrShapeMismatch, len(query), dim)
	}

	q := vectorstore.Normalize(query)

	type scored struct {
		idx int
		sim float64
	}
	scores := make([]scored, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = scored{idx: i, sim: vectorstore.Dot(q, v)}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].sim > scores[b].sim
	})

	if k > len(scores) {
		k = len(scores)
	}

	out := make([]domain.RetrievedSource, 0, k)
	for rank, sc := range scores[:k] {
		c := idx.chunks[sc.idx]
		out = append(out, domain.RetrievedSource{
			Rank:       rank + 1,
			Similarity: sc.sim,
			PageNum:    c.PageNum,
			ChunkIndex: c.ChunkIndex,
			ChunkID:    c.ID,
			Text:       c.Text,
		})
	}

	return out, nil
}

// Delete removes the document's snapshot.
func (s *Store) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, documentID)
	return nil
}
