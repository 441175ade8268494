package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docask-cli/internal/chunker"
	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
	"github.com/custodia-labs/docask-cli/internal/metadata"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor ingests documents: extraction, metadata detection,
// chunking, embedding and index build, then registry bookkeeping.
//
// Ingestion is not transactional against concurrent queries on the
// same document: callers must treat ingest-then-available as a supply
// point and only query after Ingest returns.
type Ingestor struct {
	extractor driven.TextExtractor
	embedder  driven.EmbeddingService
	vectors   driven.VectorStore
	registry  driven.DocumentRegistry
	chunks    *chunker.Chunker
}

// NewIngestor creates an ingest service.
func NewIngestor(
	extractor driven.TextExtractor,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	registry driven.DocumentRegistry,
	chunks *chunker.Chunker,
) *Ingestor {
	if chunks == nil {
		chunks = chunker.New()
	}
	return &Ingestor{
		extractor: extractor,
		embedder:  embedder,
		vectors:   vectors,
		registry:  registry,
		chunks:    chunks,
	}
}

// Ingest processes one file end to end and returns its registry record.
func (s *Ingestor) Ingest(ctx context.Context, path, filename, mime string) (*domain.DocumentRecord, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty file path", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Ingest")
	logger.Debug("File: %s (%s)", filename, mime)

	documentID := uuid.New().String()

	pages, err := s.extractor.Extract(ctx, path, mime)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}
	logger.Debug("Extracted %d pages", len(pages))

	// Document-level metadata detected over the full text, then
	// injected into every chunk so identifier questions retrieve well
	// even without metadata filtering.
	fullText := joinPages(pages)
	docType := metadata.DetectDocumentType(fullText)
	identifiers := metadata.ExtractIdentifiers(fullText)

	meta := make(map[string]string, len(identifiers)+1)
	for k, v := range identifiers {
		meta[k] = v
	}
	if docType != "" {
		meta["document_type"] = docType
	}
	prefix := metadata.BuildPrefix(meta)

	chunks, err := s.chunks.Chunk(documentID, pages)
	if err != nil {
		return nil, fmt.Errorf("chunking: %w", err)
	}
	logger.Debug("Chunked into %d chunks", len(chunks))

	for i := range chunks {
		if len(meta) > 0 {
			chunks[i].Meta = meta
		}
		if prefix != "" {
			chunks[i].Text = prefix + chunks[i].Text
		}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	if err := s.vectors.Build(ctx, documentID, chunks, embeddings); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	rec := domain.DocumentRecord{
		ID:           documentID,
		Filename:     filename,
		MIMEType:     mime,
		DocumentType: docType,
		Identifiers:  identifiers,
		NumPages:     len(pages),
		NumChunks:    len(chunks),
		CreatedAt:    time.Now().UTC(),
	}

	if s.registry != nil {
		if err := s.registry.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("saving document record: %w", err)
		}
	}

	logger.Info("Ingested %s as %s (%d chunks)", filename, documentID, len(chunks))
	return &rec, nil
}

// Delete removes a document's registry record and index artifacts.
func (s *Ingestor) Delete(ctx context.Context, documentID string) error {
	if err := s.vectors.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("deleting index artifacts: %w", err)
	}
	if s.registry != nil {
		if err := s.registry.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("deleting document record: %w", err)
		}
	}
	return nil
}

// joinPages concatenates page texts for document-level detection.
func joinPages(pages []domain.Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
