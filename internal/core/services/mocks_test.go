package services

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	sources   []domain.RetrievedSource
	searchErr error
	buildErr  error
	deleteErr error

	builtDocumentID string
	builtChunks     []domain.Chunk
	requestedK      int
	deletedIDs      []string
}

func (m *mockVectorStore) Build(_ context.Context, documentID string, chunks []domain.Chunk, _ [][]float32) error {
	if m.buildErr != nil {
		return m.buildErr
	}
	m.builtDocumentID = documentID
	m.builtChunks = chunks
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ string, _ []float32, k int) ([]domain.RetrievedSource, error) {
	m.requestedK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.sources) {
		return m.sources, nil
	}
	return m.sources[:k], nil
}

func (m *mockVectorStore) Delete(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, documentID)
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply   string
	chatErr error

	lastMessages []driven.ChatMessage
	lastOptions  driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	m.lastOptions = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

// mockRetrievalService implements driving.RetrievalService for testing
// the ask service in isolation.
type mockRetrievalService struct {
	sources     []domain.RetrievedSource
	retrieveErr error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _, _ string, topK int) ([]domain.RetrievedSource, error) {
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	if topK > 0 && topK < len(m.sources) {
		return m.sources[:topK], nil
	}
	return m.sources, nil
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	pages      []domain.Page
	extractErr error
}

func (m *mockExtractor) Extract(_ context.Context, _, _ string) ([]domain.Page, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.pages, nil
}

// mockRegistry implements driven.DocumentRegistry for testing.
type mockRegistry struct {
	saveErr   error
	deleteErr error

	saved   []domain.DocumentRecord
	deleted []string
}

func (m *mockRegistry) Save(_ context.Context, rec domain.DocumentRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockRegistry) Get(_ context.Context, id string) (*domain.DocumentRecord, error) {
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegistry) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return m.saved, nil
}

func (m *mockRegistry) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}
