package services

import (
	"math"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// Confidence weighting. The breakpoints and weights are tuned against
// observed similarity distributions on messy scanned documents; do not
// adjust them independently.
const (
	weightCalibratedTop1 = 0.62
	weightAgreement      = 0.23
	weightCoverage       = 0.15
	maxKeywordBoost      = 0.12
)

// Confidence maps retrieval signals into a calibrated [0,1] confidence
// score. Empty sources yield 0.0 with reason no_retrieval. All
// intermediate signals are reported in the details.
func Confidence(sources []domain.RetrievedSource) domain.ConfidenceResult {
	if len(sources) == 0 {
		return domain.ConfidenceResult{
			Confidence: 0.0,
			Details:    domain.ConfidenceDetails{Reason: domain.ReasonNoRetrieval},
		}
	}

	top := sources[0]
	calibrated := calibrateSimilarity(top.Similarity)
	agreement := rankAgreement(sources)
	coverage := coverageProxy(top.Similarity)
	boost := math.Min(maxKeywordBoost, maxKeywordBoost*top.KeywordScore)

	confidence := clamp01(weightCalibratedTop1*calibrated +
		weightAgreement*agreement +
		weightCoverage*coverage +
		boost)

	return domain.ConfidenceResult{
		Confidence: confidence,
		Details: domain.ConfidenceDetails{
			Top1:           top.Similarity,
			CalibratedTop1: calibrated,
			Agreement:      agreement,
			Coverage:       coverage,
			KeywordBoost:   boost,
		},
	}
}

// calibrateSimilarity maps raw cosine similarity onto a more
// discriminative 0-0.98 display scale. Raw scores cluster in
// 0.30-0.55 for messy documents, so the curve stretches that band.
func calibrateSimilarity(sim float64) float64 {
	if sim < 0 {
		sim = 0
	}
	switch {
	case sim <= 0.25:
		return 0.20 * (sim / 0.25)
	case sim <= 0.35:
		return 0.20 + 0.25*((sim-0.25)/0.10)
	case sim <= 0.45:
		return 0.45 + 0.30*((sim-0.35)/0.10)
	case sim <= 0.60:
		return 0.75 + 0.17*((sim-0.45)/0.15)
	default:
		// Asymptotic toward 0.98 above the last breakpoint.
		return 0.98 - 0.06*math.Exp(-6.0*(sim-0.60))
	}
}

// rankAgreement measures how close the top 3 rerank scores are.
// Tight clustering means the reranker had little to disambiguate, so
// the top hit is less likely to be a fluke of one similarity spike.
func rankAgreement(sources []domain.RetrievedSource) float64 {
	n := len(sources)
	if n < 2 {
		return 0.0
	}
	if n > 3 {
		n = 3
	}

	var mean float64
	for _, s := range sources[:n] {
		mean += s.RerankScore
	}
	mean /= float64(n)

	var variance float64
	for _, s := range sources[:n] {
		d := s.RerankScore - mean
		variance += d * d
	}
	variance /= float64(n)

	return math.Max(0.0, 1.0-3.0*math.Sqrt(variance))
}

// coverageProxy is a coarse coverage estimate from the raw top
// similarity alone.
func coverageProxy(topSim float64) float64 {
	switch {
	case topSim >= 0.45:
		return 0.70
	case topSim >= 0.35:
		return 0.55
	default:
		return 0.35
	}
}

// clamp01 bounds a value to [0,1].
func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
