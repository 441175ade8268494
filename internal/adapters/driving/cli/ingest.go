package cli

import (
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ingestMIME string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest a document and build its index",
	Long: `Extract text from a PDF or plain-text file, chunk it, embed the
chunks and build the per-document index. Prints the document ID used
by the ask command.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestMIME, "mime", "", "override the detected MIME type")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the document record as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	filename := filepath.Base(path)

	mimeType := ingestMIME
	if mimeType == "" {
		mimeType = detectMIME(path)
	}

	rec, err := ingestService.Ingest(cmd.Context(), path, filename, mimeType)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", filename, err)
	}

	if ingestJSON {
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("Ingested %s\n", rec.Filename)
	cmd.Printf("  Document ID: %s\n", rec.ID)
	if rec.DocumentType != "" {
		cmd.Printf("  Type:        %s\n", rec.DocumentType)
	}
	cmd.Printf("  Pages:       %d\n", rec.NumPages)
	cmd.Printf("  Chunks:      %d\n", rec.NumChunks)
	for k, v := range rec.Identifiers {
		cmd.Printf("  %s: %s\n", k, v)
	}
	return nil
}

// detectMIME maps the file extension to a MIME type, falling back to
// text/plain so unknown extensions still go through text extraction.
func detectMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return "application/pdf"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}
