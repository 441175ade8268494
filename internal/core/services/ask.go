package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// Ensure Asker implements the interface.
var _ driving.AskService = (*Asker)(nil)

// DefaultMinSimilarity is the guardrail threshold on raw top
// similarity below which answering is refused.
const DefaultMinSimilarity = 0.35

// acceptedConfidenceFloor is the minimum confidence reported once
// guardrails pass and a grounded answer was produced. Tunable policy,
// not an invariant.
const acceptedConfidenceFloor = 0.55

// How many sources are attached to guarded and answered responses.
const (
	guardedSourceLimit  = 2
	answeredSourceLimit = 3
	contextSourceLimit  = 6
)

const answerSystemPrompt = "You are an AI assistant inside a Transportation Management System. " +
	"Answer ONLY using the provided sources. " +
	"If the answer is not explicitly present, respond exactly with: Not found in document. " +
	"Keep the answer short and specific."

// Asker answers questions against one document, gating retrieval
// through guardrails and calibrating a confidence score.
type Asker struct {
	retriever     driving.RetrievalService
	llm           driven.LLMService
	minSimilarity float64
	topK          int
}

// AskerOption configures the ask service.
type AskerOption func(*Asker)

// WithMinSimilarity sets the guardrail similarity threshold.
func WithMinSimilarity(min float64) AskerOption {
	return func(a *Asker) {
		if min > 0 {
			a.minSimilarity = min
		}
	}
}

// WithTopK sets how many sources are retrieved per question.
func WithTopK(k int) AskerOption {
	return func(a *Asker) {
		if k > 0 {
			a.topK = k
		}
	}
}

// NewAsker creates an ask service. The llm may be nil, in which case
// accepted questions return the top matching text with an explanatory
// answer instead of a generated one.
func NewAsker(retriever driving.RetrievalService, llm driven.LLMService, opts ...AskerOption) *Asker {
	a := &Asker{
		retriever:     retriever,
		llm:           llm,
		minSimilarity: DefaultMinSimilarity,
		topK:          DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask retrieves sources, applies guardrails and produces an answer.
func (a *Asker) Ask(ctx context.Context, documentID, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	sources, err := a.retriever.Retrieve(ctx, documentID, question, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	conf := Confidence(sources)

	// Guardrail: refuse to answer when retrieval found nothing or the
	// best hit is too dissimilar to trust.
	if len(sources) == 0 {
		logger.Info("Guardrail triggered: %s", domain.GuardrailNoSources)
		return &domain.Answer{
			Answer:            domain.NotFoundAnswer,
			Sources:           []domain.RetrievedSource{},
			Confidence:        conf.Confidence,
			ConfidenceDetails: conf.Details,
			Guardrail: domain.Guardrail{
				Triggered:     true,
				Reason:        domain.GuardrailNoSources,
				MinSimilarity: a.minSimilarity,
			},
		}, nil
	}

	topSim := sources[0].Similarity
	if topSim < a.minSimilarity {
		logger.Info("Guardrail triggered: %s (top=%.3f < min=%.3f)",
			domain.GuardrailLowSimilarity, topSim, a.minSimilarity)
		return &domain.Answer{
			Answer:            domain.NotFoundAnswer,
			Sources:           truncateSources(sources, guardedSourceLimit),
			Confidence:        conf.Confidence,
			ConfidenceDetails: conf.Details,
			Guardrail: domain.Guardrail{
				Triggered:     true,
				Reason:        domain.GuardrailLowSimilarity,
				MinSimilarity: a.minSimilarity,
				TopSimilarity: topSim,
			},
		}, nil
	}

	guardrail := domain.Guardrail{
		MinSimilarity: a.minSimilarity,
		TopSimilarity: topSim,
	}

	if a.llm == nil {
		return &domain.Answer{
			Answer:            "LLM not configured. Top matching text is returned as source.",
			Sources:           truncateSources(sources, answeredSourceLimit),
			Confidence:        conf.Confidence,
			ConfidenceDetails: conf.Details,
			Guardrail:         guardrail,
		}, nil
	}

	answer, err := a.generateAnswer(ctx, question, sources)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	// Grounding re-check: never let a generated answer through when
	// retrieval similarity did not clear the guardrail.
	if !isNotFound(answer) && topSim < a.minSimilarity {
		answer = domain.NotFoundAnswer
	}

	confidence := conf.Confidence
	if !isNotFound(answer) && confidence < acceptedConfidenceFloor {
		confidence = acceptedConfidenceFloor
	}

	return &domain.Answer{
		Answer:            answer,
		Sources:           truncateSources(sources, answeredSourceLimit),
		Confidence:        confidence,
		ConfidenceDetails: conf.Details,
		Guardrail:         guardrail,
	}, nil
}

// generateAnswer builds the grounded prompt and calls the LLM.
func (a *Asker) generateAnswer(ctx context.Context, question string, sources []domain.RetrievedSource) (string, error) {
	limit := contextSourceLimit
	if limit > len(sources) {
		limit = len(sources)
	}

	var b strings.Builder
	for _, s := range sources[:limit] {
		page := 0
		if s.PageNum != nil {
			page = *s.PageNum
		}
		fmt.Fprintf(&b, "[Source %d | page=%d | sim=%.3f]\n%s\n\n", s.Rank, page, s.Similarity, s.Text)
	}

	user := fmt.Sprintf("Question: %s\n\nSources:\n%s", question, b.String())

	reply, err := a.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: user},
	}, driven.ChatOptions{Temperature: 0.0})
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = domain.NotFoundAnswer
	}
	return reply, nil
}

// isNotFound reports whether an answer is the exact refusal string.
func isNotFound(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), domain.NotFoundAnswer)
}

// truncateSources bounds the sources attached to a response.
func truncateSources(sources []domain.RetrievedSource, limit int) []domain.RetrievedSource {
	if len(sources) > limit {
		return sources[:limit]
	}
	return sources
}
