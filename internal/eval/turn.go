// Package eval is the offline evaluation harness. It replays recorded
// pipeline outputs (question, answer, sources, confidence, guardrail)
// against grounding heuristics to produce verdicts, independent of the
// live request path.
//
// Evaluators are pure functions and never fail: every input shape,
// including empty ones, maps to a defined output.
package eval

import (
	"math"
	"regexp"
	"strings"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// Verdict is the outcome of evaluating a turn or session.
type Verdict string

// Verdict values, ordered from best to worst.
const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
	VerdictFail Verdict = "fail"
)

// Flags attached to turn results.
const (
	FlagLowSimilarity      = "low_similarity"
	FlagWeakSourceCoverage = "weak_source_coverage"
	FlagEmptySession       = "empty_session"
	flagGuardrailPrefix    = "guardrail:"
)

// Thresholds configure the turn evaluator.
type Thresholds struct {
	// MinSimilarity is the retrieval pass bar on top similarity.
	MinSimilarity float64 `json:"min_similarity"`

	// MinCoverage is the grounding pass bar on answer coverage.
	MinCoverage float64 `json:"min_coverage"`

	// FailCoverage is the bar below which weak coverage fails the
	// turn outright instead of warning.
	FailCoverage float64 `json:"fail_coverage"`
}

// DefaultThresholds returns the tuned default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSimilarity: 0.35,
		MinCoverage:   0.45,
		FailCoverage:  0.30,
	}
}

// TurnInput is one recorded question/answer exchange to evaluate.
type TurnInput struct {
	Question   string                   `json:"question"`
	Answer     string                   `json:"answer"`
	Sources    []domain.RetrievedSource `json:"sources"`
	Confidence float64                  `json:"confidence"`
	Guardrail  domain.Guardrail         `json:"guardrail"`
}

// RetrievalCheck reports the retrieval-quality portion of a verdict.
type RetrievalCheck struct {
	TopSimilarity         float64 `json:"top_similarity"`
	MeanSimilarity        float64 `json:"mean_similarity"`
	MinSimilarityRequired float64 `json:"min_similarity_required"`
	RetrievedChunks       int     `json:"retrieved_chunks"`
	Passed                bool    `json:"passed"`
}

// GroundingCheck reports the answer-grounding portion of a verdict.
type GroundingCheck struct {
	AnswerCoverage      float64 `json:"answer_coverage"`
	AnswerIsNotFound    bool    `json:"answer_is_not_found"`
	MinCoverageRequired float64 `json:"min_coverage_required"`
	Passed              bool    `json:"passed"`
}

// GuardrailCheck echoes the recorded guardrail decision.
type GuardrailCheck struct {
	Triggered bool   `json:"triggered"`
	Reason    string `json:"reason,omitempty"`
}

// TurnMeta carries auxiliary measurements for reporting.
type TurnMeta struct {
	QuestionLengthChars int `json:"question_length_chars"`
	AnswerLengthChars   int `json:"answer_length_chars"`
}

// TurnResult is the verdict for one turn.
type TurnResult struct {
	Verdict      Verdict        `json:"verdict"`
	OverallScore float64        `json:"overall_score"`
	Retrieval    RetrievalCheck `json:"retrieval"`
	Grounding    GroundingCheck `json:"grounding"`
	Guardrail    GuardrailCheck `json:"guardrail"`
	Flags        []string       `json:"flags"`
	Meta         TurnMeta       `json:"meta"`
}

// Stop words excluded from coverage tokenization.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {},
}

var tokenRE = regexp.MustCompile(`[a-z0-9]+`)

// EvaluateTurn scores one recorded exchange. Pure function: identical
// inputs always produce identical results.
func EvaluateTurn(in TurnInput, th Thresholds) TurnResult {
	var topSimilarity, meanSimilarity float64
	if len(in.Sources) > 0 {
		var sum float64
		for _, s := range in.Sources {
			sum += s.Similarity
		}
		topSimilarity = in.Sources[0].Similarity
		meanSimilarity = sum / float64(len(in.Sources))
	}

	sourceTexts := make([]string, len(in.Sources))
	for i, s := range in.Sources {
		sourceTexts[i] = s.Text
	}
	answerCoverage := coverageRatio(in.Answer, sourceTexts)
	notFound := isNotFoundAnswer(in.Answer)

	retrievalPass := topSimilarity >= th.MinSimilarity
	groundingPass := notFound || answerCoverage >= th.MinCoverage

	var flags []string
	if !retrievalPass {
		flags = append(flags, FlagLowSimilarity)
	}
	if in.Guardrail.Triggered {
		reason := in.Guardrail.Reason
		if reason == "" {
			reason = "unknown"
		}
		flags = append(flags, flagGuardrailPrefix+reason)
	}
	if !notFound && answerCoverage < th.MinCoverage {
		flags = append(flags, FlagWeakSourceCoverage)
	}

	retrievalTerm := 0.0
	if retrievalPass {
		retrievalTerm = 1.0
	}
	score := 0.50*in.Confidence + 0.35*answerCoverage + 0.15*retrievalTerm
	score = math.Max(0.0, math.Min(1.0, score))

	verdict := VerdictPass
	if len(flags) > 0 {
		if !retrievalPass || (!notFound && answerCoverage < th.FailCoverage) {
			verdict = VerdictFail
		} else {
			verdict = VerdictWarn
		}
	}

	return TurnResult{
		Verdict:      verdict,
		OverallScore: score,
		Retrieval: RetrievalCheck{
			TopSimilarity:         topSimilarity,
			MeanSimilarity:        meanSimilarity,
			MinSimilarityRequired: th.MinSimilarity,
			RetrievedChunks:       len(in.Sources),
			Passed:                retrievalPass,
		},
		Grounding: GroundingCheck{
			AnswerCoverage:      answerCoverage,
			AnswerIsNotFound:    notFound,
			MinCoverageRequired: th.MinCoverage,
			Passed:              groundingPass,
		},
		Guardrail: GuardrailCheck{
			Triggered: in.Guardrail.Triggered,
			Reason:    in.Guardrail.Reason,
		},
		Flags: flags,
		Meta: TurnMeta{
			QuestionLengthChars: len(in.Question),
			AnswerLengthChars:   len(in.Answer),
		},
	}
}

// coverageRatio is the fraction of the answer's content tokens found
// in the concatenated source texts. 0 when the answer has no content
// tokens.
func coverageRatio(answer string, sourceTexts []string) float64 {
	answerTokens := contentTokens(answer)
	if len(answerTokens) == 0 {
		return 0.0
	}

	sourceSet := make(map[string]struct{})
	for _, tok := range contentTokens(strings.Join(sourceTexts, " ")) {
		sourceSet[tok] = struct{}{}
	}

	overlap := 0
	for _, tok := range answerTokens {
		if _, ok := sourceSet[tok]; ok {
			overlap++
		}
	}

	ratio := float64(overlap) / float64(len(answerTokens))
	return math.Max(0.0, math.Min(1.0, ratio))
}

// contentTokens lowercases and tokenizes text, dropping stop words
// and single-character tokens.
func contentTokens(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, tok := range tokenRE.FindAllString(strings.ToLower(text), -1) {
		if len(tok) <= 1 {
			continue
		}
		if _, stopped := stopwords[tok]; stopped {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// isNotFoundAnswer matches the exact refusal answer, ignoring case
// and surrounding whitespace.
func isNotFoundAnswer(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == strings.ToLower(domain.NotFoundAnswer)
}
