package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// DefaultTopK is the number of sources returned per question.
const DefaultTopK = 6

// DefaultKeywordAlpha is the weight of the keyword score in the
// blended rerank score. Pure vector similarity under-weights exact
// identifiers (PO numbers, emails, money amounts) that matter in
// structured business documents; the keyword term recovers exact-match
// precision without discarding semantic ranking.
const DefaultKeywordAlpha = 0.25

// minPreK is the floor on how many raw candidates the broad vector
// search fetches before reranking.
const minPreK = 12

// Retriever performs hybrid retrieval: a broad vector search reranked
// by blending similarity with lexical keyword overlap.
type Retriever struct {
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
	alpha    float64
}

// RetrieverOption configures the retriever.
type RetrieverOption func(*Retriever)

// WithKeywordAlpha sets the keyword blend weight.
func WithKeywordAlpha(alpha float64) RetrieverOption {
	return func(r *Retriever) {
		if alpha >= 0 {
			r.alpha = alpha
		}
	}
}

// NewRetriever creates a hybrid retriever. The embedder may be nil, in
// which case Retrieve reports domain.ErrEmbeddingUnavailable.
func NewRetriever(vectors driven.VectorStore, embedder driven.EmbeddingService, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		vectors:  vectors,
		embedder: embedder,
		alpha:    DefaultKeywordAlpha,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to topK reranked sources for a question against
// one document. A document with no built index yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, documentID, question string, topK int) ([]domain.RetrievedSource, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Section("Hybrid Retrieval")
	logger.Debug("Document: %s, question: %q, top_k: %d", documentID, question, topK)

	queryEmb, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	preK := topK * 3
	if preK < minPreK {
		preK = minPreK
	}

	candidates, err := r.vectors.Search(ctx, documentID, queryEmb, preK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d candidates (pre_k=%d)", len(candidates), preK)

	if len(candidates) == 0 {
		return nil, nil
	}

	tokens := ExtractKeywords(question)
	logger.Debug("Keyword tokens: %v", tokens)

	reranked := Rerank(candidates, tokens, r.alpha)
	if len(reranked) > topK {
		reranked = reranked[:topK]
	}

	if logger.IsVerbose() {
		for _, s := range reranked {
			logger.Debug("  #%d sim=%.3f kw=%.3f rerank=%.3f chunk=%s",
				s.Rank, s.Similarity, s.KeywordScore, s.RerankScore, s.ChunkID)
		}
	}

	return reranked, nil
}

// Rerank blends vector similarity with keyword overlap and reorders
// the candidates by the blended score, descending. Ranks are
// reassigned 1..N. The sort is stable, so equal rerank scores keep
// their vector-search order.
func Rerank(candidates []domain.RetrievedSource, tokens []string, alpha float64) []domain.RetrievedSource {
	out := make([]domain.RetrievedSource, len(candidates))
	copy(out, candidates)

	for i := range out {
		kw := KeywordScore(out[i].Text, tokens)
		out[i].KeywordScore = kw
		out[i].RerankScore = out[i].Similarity + alpha*kw
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].RerankScore > out[b].RerankScore
	})

	for i := range out {
		out[i].Rank = i + 1
	}

	return out
}
