// Package vectorstore holds the math and validation shared by the
// per-document vector store adapters.
//
// Vectors are L2-normalized on insertion and on query, so the inner
// product of two stored vectors is their cosine similarity.
package vectorstore

import (
	"fmt"
	"math"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// normEpsilon avoids division by zero when normalizing.
const normEpsilon = 1e-9

// ValidateShape checks that the embedding batch lines up with the
// chunk batch: one vector per chunk, all the same non-zero
// dimensionality. Returns the dimensionality.
func ValidateShape(chunks []domain.Chunk, embeddings [][]float32) (int, error) {
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: %d chunks, %d embeddings",
			domain.ErrShapeMismatch, len(chunks), len(embeddings))
	}
	if len(embeddings) == 0 {
		return 0, fmt.Errorf("%w: empty batch", domain.ErrShapeMismatch)
	}

	dim := len(embeddings[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: zero-dimensional embedding", domain.ErrShapeMismatch)
	}
	for i, emb := range embeddings {
		if len(emb) != dim {
			return 0, fmt.Errorf("%w: embedding %d has dimension %d, want %d",
				domain.ErrShapeMismatch, i, len(emb), dim)
		}
	}

	return dim, nil
}

// Normalize returns an L2-normalized copy of v.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Dot returns the inner product of two equal-length vectors.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
