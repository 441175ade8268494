package extract

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// extractPDF extracts text page by page so chunk provenance keeps
// page numbers. Pages that yield no text are still emitted so page
// counts match the source document.
func extractPDF(ctx context.Context, path string) ([]domain.Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]domain.Page, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			text = ""
		}

		num := i
		pages = append(pages, domain.Page{Num: &num, Text: text})
	}

	return pages, nil
}
