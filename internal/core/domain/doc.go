// Package domain defines the core business entities for Docask.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded passage of document text, the unit of retrieval
//   - Page: Extracted text for one page of a document
//   - RetrievedSource: A query-time retrieval hit with its scores
//   - ConfidenceResult: A calibrated confidence score with its signals
//   - Guardrail: The decision gating whether an answer is allowed
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
