package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

func confidentSources() []domain.RetrievedSource {
	page := 2
	return []domain.RetrievedSource{
		{Rank: 1, Similarity: 0.52, RerankScore: 0.55, PageNum: &page, ChunkID: "d:2:0", Text: "Total Rate: $1,800 all-in"},
		{Rank: 2, Similarity: 0.48, RerankScore: 0.50, ChunkID: "d:0:1", Text: "Pickup at 123 Main St"},
		{Rank: 3, Similarity: 0.44, RerankScore: 0.46, ChunkID: "d:0:2", Text: "Carrier: ACME Freight"},
		{Rank: 4, Similarity: 0.40, RerankScore: 0.41, ChunkID: "d:0:3", Text: "Notes"},
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	asker := NewAsker(&mockRetrievalService{retrieveErr: domain.ErrEmbeddingUnavailable}, nil)

	// Retrieval is never reached: its error must not surface.
	got, err := asker.Ask(context.Background(), "doc", "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, got)
}

func TestAsk_NoSourcesGuardrail(t *testing.T) {
	asker := NewAsker(&mockRetrievalService{}, &mockLLMService{reply: "should not be used"})

	got, err := asker.Ask(context.Background(), "doc", "what is the rate?")
	require.NoError(t, err)

	assert.Equal(t, domain.NotFoundAnswer, got.Answer)
	assert.Empty(t, got.Sources)
	assert.NotNil(t, got.Sources)
	assert.Zero(t, got.Confidence)
	assert.True(t, got.Guardrail.Triggered)
	assert.Equal(t, domain.GuardrailNoSources, got.Guardrail.Reason)
	assert.Equal(t, domain.ReasonNoRetrieval, got.ConfidenceDetails.Reason)
}

func TestAsk_LowSimilarityGuardrail(t *testing.T) {
	sources := []domain.RetrievedSource{
		{Rank: 1, Similarity: 0.20, RerankScore: 0.20, ChunkID: "d:0:0", Text: "unrelated text"},
		{Rank: 2, Similarity: 0.18, RerankScore: 0.18, ChunkID: "d:0:1", Text: "more unrelated"},
		{Rank: 3, Similarity: 0.15, RerankScore: 0.15, ChunkID: "d:0:2", Text: "noise"},
	}
	llm := &mockLLMService{reply: "should not be called"}
	asker := NewAsker(&mockRetrievalService{sources: sources}, llm)

	got, err := asker.Ask(context.Background(), "doc", "what is the warranty?")
	require.NoError(t, err)

	assert.Equal(t, domain.NotFoundAnswer, got.Answer)
	assert.True(t, got.Guardrail.Triggered)
	assert.Equal(t, domain.GuardrailLowSimilarity, got.Guardrail.Reason)
	assert.InDelta(t, 0.20, got.Guardrail.TopSimilarity, 1e-9)
	assert.InDelta(t, DefaultMinSimilarity, got.Guardrail.MinSimilarity, 1e-9)

	// Guarded responses keep a couple of sources for transparency.
	assert.Len(t, got.Sources, 2)
	assert.Nil(t, llm.lastMessages)
}

func TestAsk_NilLLMDegrades(t *testing.T) {
	asker := NewAsker(&mockRetrievalService{sources: confidentSources()}, nil)

	got, err := asker.Ask(context.Background(), "doc", "what is the rate?")
	require.NoError(t, err)

	assert.Equal(t, "LLM not configured. Top matching text is returned as source.", got.Answer)
	assert.Len(t, got.Sources, 3)
	assert.False(t, got.Guardrail.Triggered)
	assert.InDelta(t, 0.52, got.Guardrail.TopSimilarity, 1e-9)
}

func TestAsk_AnsweredWithConfidenceFloor(t *testing.T) {
	// A lone borderline source keeps the raw confidence below the
	// accepted floor; a real generated answer is reported at the floor.
	sources := []domain.RetrievedSource{
		{Rank: 1, Similarity: 0.40, RerankScore: 0.40, ChunkID: "d:0:0", Text: "Total Rate: $1,800"},
	}
	llm := &mockLLMService{reply: "The rate is $1,800."}
	asker := NewAsker(&mockRetrievalService{sources: sources}, llm)

	got, err := asker.Ask(context.Background(), "doc", "what is the rate?")
	require.NoError(t, err)

	assert.Equal(t, "The rate is $1,800.", got.Answer)
	assert.InDelta(t, 0.55, got.Confidence, 1e-9)
	assert.False(t, got.Guardrail.Triggered)

	// The raw signal stays visible in the details.
	assert.Less(t,
		0.62*got.ConfidenceDetails.CalibratedTop1+
			0.23*got.ConfidenceDetails.Agreement+
			0.15*got.ConfidenceDetails.Coverage+
			got.ConfidenceDetails.KeywordBoost,
		0.55)
}

func TestAsk_NotFoundAnswerSkipsFloor(t *testing.T) {
	sources := []domain.RetrievedSource{
		{Rank: 1, Similarity: 0.40, RerankScore: 0.40, ChunkID: "d:0:0", Text: "Total Rate: $1,800"},
	}
	llm := &mockLLMService{reply: "Not found in document."}
	asker := NewAsker(&mockRetrievalService{sources: sources}, llm)

	got, err := asker.Ask(context.Background(), "doc", "what is the warranty?")
	require.NoError(t, err)

	assert.Equal(t, domain.NotFoundAnswer, got.Answer)
	assert.Less(t, got.Confidence, 0.55)
	assert.False(t, got.Guardrail.Triggered)
}

func TestAsk_EmptyLLMReplyBecomesNotFound(t *testing.T) {
	llm := &mockLLMService{reply: "   "}
	asker := NewAsker(&mockRetrievalService{sources: confidentSources()}, llm)

	got, err := asker.Ask(context.Background(), "doc", "anything?")
	require.NoError(t, err)
	assert.Equal(t, domain.NotFoundAnswer, got.Answer)
}

func TestAsk_PromptCarriesSources(t *testing.T) {
	llm := &mockLLMService{reply: "The rate is $1,800."}
	asker := NewAsker(&mockRetrievalService{sources: confidentSources()}, llm)

	_, err := asker.Ask(context.Background(), "doc", "what is the rate?")
	require.NoError(t, err)

	require.Len(t, llm.lastMessages, 2)
	assert.Equal(t, "system", llm.lastMessages[0].Role)
	assert.Contains(t, llm.lastMessages[0].Content, "Not found in document.")
	assert.Equal(t, "user", llm.lastMessages[1].Role)
	assert.Contains(t, llm.lastMessages[1].Content, "Question: what is the rate?")
	assert.Contains(t, llm.lastMessages[1].Content, "[Source 1 | page=2 | sim=0.520]")
	assert.Contains(t, llm.lastMessages[1].Content, "Total Rate: $1,800 all-in")
	assert.Zero(t, llm.lastOptions.Temperature)
}

func TestAsk_RetrieveErrorPropagates(t *testing.T) {
	asker := NewAsker(&mockRetrievalService{retrieveErr: domain.ErrEmbeddingUnavailable}, nil)

	_, err := asker.Ask(context.Background(), "doc", "q")
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestAsk_LLMErrorPropagates(t *testing.T) {
	llm := &mockLLMService{chatErr: errors.New("model overloaded")}
	asker := NewAsker(&mockRetrievalService{sources: confidentSources()}, llm)

	_, err := asker.Ask(context.Background(), "doc", "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestAsk_CustomMinSimilarity(t *testing.T) {
	asker := NewAsker(&mockRetrievalService{sources: confidentSources()}, nil,
		WithMinSimilarity(0.60))

	got, err := asker.Ask(context.Background(), "doc", "q")
	require.NoError(t, err)

	assert.True(t, got.Guardrail.Triggered)
	assert.Equal(t, domain.GuardrailLowSimilarity, got.Guardrail.Reason)
	assert.InDelta(t, 0.60, got.Guardrail.MinSimilarity, 1e-9)
}
