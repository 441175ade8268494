package domain

// NotFoundAnswer is the exact fallback answer produced when retrieval
// cannot ground an answer in the document. Guardrails and the evaluation
// harness compare against this string verbatim.
const NotFoundAnswer = "Not found in document."

// Guardrail reasons.
const (
	// GuardrailNoSources fires when retrieval returned nothing.
	GuardrailNoSources = "no_sources"

	// GuardrailLowSimilarity fires when the top raw similarity is below
	// the configured minimum.
	GuardrailLowSimilarity = "low_retrieval_similarity"
)

// RetrievedSource is a single retrieval hit for one query.
// It exists only for the duration of the query.
type RetrievedSource struct {
	// Rank is the 1-based position in the current ordering.
	// It is reassigned after every reordering step.
	Rank int `json:"rank"`

	// Similarity is the cosine similarity against the query embedding.
	Similarity float64 `json:"similarity"`

	// KeywordScore is the lexical overlap score in [0,1].
	// Zero until reranking has run.
	KeywordScore float64 `json:"keyword_score,omitempty"`

	// RerankScore is the blended score used for final ordering.
	// Zero until reranking has run.
	RerankScore float64 `json:"rerank_score,omitempty"`

	// PageNum is the originating chunk's page, nil when unpaginated.
	PageNum *int `json:"page_num"`

	// ChunkIndex is the originating chunk's position in the document.
	ChunkIndex int `json:"chunk_index"`

	// ChunkID is the originating chunk's identifier.
	ChunkID string `json:"chunk_id"`

	// Text is the originating chunk's content.
	Text string `json:"text"`
}

// Guardrail records the decision gating whether an answer was allowed.
type Guardrail struct {
	// Triggered is true when the guardrail blocked the answer.
	Triggered bool `json:"triggered"`

	// Reason names the trigger (GuardrailNoSources, GuardrailLowSimilarity).
	// Empty when not triggered.
	Reason string `json:"reason,omitempty"`

	// MinSimilarity is the threshold that was applied.
	MinSimilarity float64 `json:"min_similarity,omitempty"`

	// TopSimilarity is the best raw similarity seen, 0 with no sources.
	TopSimilarity float64 `json:"top_similarity,omitempty"`
}

// Answer is the full result of asking a question against one document.
type Answer struct {
	// Answer is the answer text, or NotFoundAnswer when guarded.
	Answer string `json:"answer"`

	// Sources are the retrieval hits the answer is grounded in.
	Sources []RetrievedSource `json:"sources"`

	// Confidence is the calibrated confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// ConfidenceDetails exposes the signals behind Confidence.
	ConfidenceDetails ConfidenceDetails `json:"confidence_details"`

	// Guardrail records the gating decision for this answer.
	Guardrail Guardrail `json:"guardrail"`
}
