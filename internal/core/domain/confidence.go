package domain

// ReasonNoRetrieval is set in ConfidenceDetails when there were no
// sources to score.
const ReasonNoRetrieval = "no_retrieval"

// ConfidenceResult is a calibrated confidence score for one query.
// Recomputed per query, never persisted.
type ConfidenceResult struct {
	// Confidence is the final score in [0,1].
	Confidence float64 `json:"confidence"`

	// Details exposes every intermediate signal for auditability.
	Details ConfidenceDetails `json:"details"`
}

// ConfidenceDetails holds the intermediate signals behind a confidence
// score. All values are reported so tests and operators can verify the
// weighting without recomputing it.
type ConfidenceDetails struct {
	// Reason is set when no score could be derived (ReasonNoRetrieval).
	Reason string `json:"reason,omitempty"`

	// Top1 is the raw cosine similarity of the best hit.
	Top1 float64 `json:"top1"`

	// CalibratedTop1 is Top1 mapped through the piecewise display curve.
	CalibratedTop1 float64 `json:"calibrated_top1"`

	// Agreement measures how close the top rerank scores are.
	Agreement float64 `json:"agreement"`

	// Coverage is a coarse proxy derived from the raw top similarity.
	Coverage float64 `json:"coverage"`

	// KeywordBoost is the additive boost from lexical overlap.
	KeywordBoost float64 `json:"keyword_boost"`
}
