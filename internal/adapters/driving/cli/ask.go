package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <document-id> <question>",
	Short: "Ask a question against an ingested document",
	Long: `Retrieve the most relevant passages of the document, generate a
grounded answer and report a calibrated confidence. When retrieval
cannot support an answer the guardrail refuses instead of guessing.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	documentID := args[0]
	question := strings.Join(args[1:], " ")

	answer, err := askService.Ask(cmd.Context(), documentID, question)
	if err != nil {
		return fmt.Errorf("asking: %w", err)
	}

	if askJSON {
		out, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding answer: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	outputAnswer(cmd, answer)
	return nil
}

func outputAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println(answer.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %s\n", formatConfidence(answer.Confidence))

	if answer.Guardrail.Triggered {
		cmd.Printf("Guardrail:  %s (top similarity %.3f, minimum %.2f)\n",
			answer.Guardrail.Reason,
			answer.Guardrail.TopSimilarity,
			answer.Guardrail.MinSimilarity)
	}

	if len(answer.Sources) == 0 {
		return
	}

	cmd.Println("Sources:")
	for _, src := range answer.Sources {
		page := "-"
		if src.PageNum != nil {
			page = fmt.Sprintf("%d", *src.PageNum)
		}
		cmd.Printf("  [%d] page=%s sim=%.3f rerank=%.3f\n",
			src.Rank, page, src.Similarity, src.RerankScore)
		cmd.Printf("      %s\n", snippet(src.Text, 160))
	}
}

// formatConfidence colors the score into rough quality bands.
func formatConfidence(confidence float64) string {
	text := fmt.Sprintf("%.2f", confidence)
	switch {
	case confidence >= 0.75:
		return color.GreenString(text)
	case confidence >= 0.45:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}

// snippet collapses whitespace and truncates to maxLen runes.
func snippet(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
