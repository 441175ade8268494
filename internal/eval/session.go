package eval

import (
	"math"
	"sort"
)

// SessionResult aggregates the turn verdicts of one session.
type SessionResult struct {
	Verdict           Verdict  `json:"session_verdict"`
	TurnCount         int      `json:"turn_count"`
	PassCount         int      `json:"pass_count"`
	WarnCount         int      `json:"warn_count"`
	FailCount         int      `json:"fail_count"`
	AvgOverallScore   float64  `json:"avg_overall_score"`
	AvgTopSimilarity  float64  `json:"avg_retrieval_top_similarity"`
	AvgAnswerCoverage float64  `json:"avg_answer_coverage"`
	Flags             []string `json:"flags"`
}

// EvaluateSession aggregates a sequence of turn results. An empty
// sequence yields verdict warn, all-zero aggregates and the
// empty_session flag.
func EvaluateSession(turns []TurnResult) SessionResult {
	if len(turns) == 0 {
		return SessionResult{
			Verdict: VerdictWarn,
			Flags:   []string{FlagEmptySession},
		}
	}

	var passCount, warnCount, failCount int
	var sumScore, sumTopSim, sumCoverage float64
	flagSet := make(map[string]struct{})

	for _, t := range turns {
		switch t.Verdict {
		case VerdictPass:
			passCount++
		case VerdictWarn:
			warnCount++
		case VerdictFail:
			failCount++
		}
		sumScore += t.OverallScore
		sumTopSim += t.Retrieval.TopSimilarity
		sumCoverage += t.Grounding.AnswerCoverage
		for _, f := range t.Flags {
			flagSet[f] = struct{}{}
		}
	}

	flags := make([]string, 0, len(flagSet))
	for f := range flagSet {
		flags = append(flags, f)
	}
	sort.Strings(flags)

	verdict := VerdictPass
	if failCount > 0 {
		verdict = VerdictFail
	} else if warnCount > 0 {
		verdict = VerdictWarn
	}

	n := float64(len(turns))
	return SessionResult{
		Verdict:           verdict,
		TurnCount:         len(turns),
		PassCount:         passCount,
		WarnCount:         warnCount,
		FailCount:         failCount,
		AvgOverallScore:   round4(sumScore / n),
		AvgTopSimilarity:  round4(sumTopSim / n),
		AvgAnswerCoverage: round4(sumCoverage / n),
		Flags:             flags,
	}
}

// round4 rounds to four decimal places for stable report output.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
