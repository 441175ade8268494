package extract

import (
	"fmt"
	"os"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// extractPlaintext reads a text-like file whole as one unpaginated page.
func extractPlaintext(path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return []domain.Page{{Num: nil, Text: string(data)}}, nil
}
