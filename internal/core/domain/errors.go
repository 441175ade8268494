package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyDocument indicates extraction produced no chunkable text.
	// Fatal for ingest: no index is written.
	ErrEmptyDocument = errors.New("no text found in document")

	// ErrShapeMismatch indicates the embedding batch does not line up
	// with the chunk batch (count or dimensionality). Fatal for ingest:
	// no partial index is written.
	ErrShapeMismatch = errors.New("embeddings shape mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval degrades to a deterministic explanation
	// instead of crashing.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
