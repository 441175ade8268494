package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docask-cli/internal/eval"
)

var (
	evalJSON          bool
	evalMinSimilarity float64
	evalMinCoverage   float64
	evalFailCoverage  float64
)

var evalCmd = &cobra.Command{
	Use:   "eval <turns.jsonl>",
	Short: "Evaluate recorded question/answer turns offline",
	Long: `Replay recorded pipeline outputs against grounding heuristics and
report per-turn and session verdicts. The input file holds one JSON
turn per line with question, answer, sources, confidence and
guardrail fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	defaults := eval.DefaultThresholds()
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "output results as JSON")
	evalCmd.Flags().Float64Var(&evalMinSimilarity, "min-similarity", defaults.MinSimilarity, "retrieval pass bar on top similarity")
	evalCmd.Flags().Float64Var(&evalMinCoverage, "min-coverage", defaults.MinCoverage, "grounding pass bar on answer coverage")
	evalCmd.Flags().Float64Var(&evalFailCoverage, "fail-coverage", defaults.FailCoverage, "coverage below which a turn fails outright")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	inputs, err := readTurns(args[0])
	if err != nil {
		return err
	}

	thresholds := eval.Thresholds{
		MinSimilarity: evalMinSimilarity,
		MinCoverage:   evalMinCoverage,
		FailCoverage:  evalFailCoverage,
	}

	turns := make([]eval.TurnResult, len(inputs))
	for i, in := range inputs {
		turns[i] = eval.EvaluateTurn(in, thresholds)
	}
	session := eval.EvaluateSession(turns)

	if evalJSON {
		out, err := json.MarshalIndent(struct {
			Session eval.SessionResult `json:"session"`
			Turns   []eval.TurnResult  `json:"turns"`
		}{session, turns}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	for i, turn := range turns {
		cmd.Printf("Turn %d: %s  score=%.4f  top_sim=%.3f  coverage=%.3f\n",
			i+1, formatVerdict(turn.Verdict), turn.OverallScore,
			turn.Retrieval.TopSimilarity, turn.Grounding.AnswerCoverage)
		question := inputs[i].Question
		if question != "" {
			cmd.Printf("  Q: %s\n", snippet(question, 100))
		}
		if len(turn.Flags) > 0 {
			cmd.Printf("  Flags: %s\n", strings.Join(turn.Flags, ", "))
		}
	}

	cmd.Println()
	cmd.Printf("Session: %s  (%d pass / %d warn / %d fail of %d turns)\n",
		formatVerdict(session.Verdict),
		session.PassCount, session.WarnCount, session.FailCount,
		session.TurnCount)
	cmd.Printf("  avg score=%.4f  avg top_sim=%.4f  avg coverage=%.4f\n",
		session.AvgOverallScore, session.AvgTopSimilarity, session.AvgAnswerCoverage)
	if len(session.Flags) > 0 {
		cmd.Printf("  Flags: %s\n", strings.Join(session.Flags, ", "))
	}
	return nil
}

// readTurns parses a JSONL file of recorded turns. Blank lines are
// skipped; a malformed line aborts with its line number.
func readTurns(path string) ([]eval.TurnInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening turns file: %w", err)
	}
	defer f.Close()

	var inputs []eval.TurnInput
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var in eval.TurnInput
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			return nil, fmt.Errorf("parsing turn at line %d: %w", lineNum, err)
		}
		inputs = append(inputs, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading turns file: %w", err)
	}
	return inputs, nil
}

func formatVerdict(verdict eval.Verdict) string {
	switch verdict {
	case eval.VerdictPass:
		return color.GreenString(string(verdict))
	case eval.VerdictWarn:
		return color.YellowString(string(verdict))
	default:
		return color.RedString(string(verdict))
	}
}
