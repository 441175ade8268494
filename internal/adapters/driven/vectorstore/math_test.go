package vectorstore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

func TestValidateShape(t *testing.T) {
	chunks := []domain.Chunk{{ID: "a"}, {ID: "b"}}

	dim, err := ValidateShape(chunks, [][]float32{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	_, err = ValidateShape(chunks, [][]float32{{1, 2, 3}})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = ValidateShape(nil, nil)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = ValidateShape(chunks, [][]float32{{1, 2, 3}, {4, 5}})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = ValidateShape([]domain.Chunk{{ID: "a"}}, [][]float32{{}})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)

	var norm float64
	for _, x := range got {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalize_ZeroVector(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	for _, x := range got {
		assert.Zero(t, x)
	}
}

func TestDot_IsCosineForNormalizedVectors(t *testing.T) {
	a := Normalize([]float32{1, 0})
	b := Normalize([]float32{1, 1})

	assert.InDelta(t, math.Sqrt2/2, Dot(a, b), 1e-6)
	assert.InDelta(t, 1.0, Dot(a, a), 1e-6)
	assert.InDelta(t, 0.0, Dot(a, Normalize([]float32{0, 1})), 1e-6)
}
