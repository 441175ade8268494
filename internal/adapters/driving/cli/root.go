// Package cli implements the docask command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docask-cli/internal/adapters/driven/config/file"
	embeddingopenai "github.com/custodia-labs/docask-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docask-cli/internal/adapters/driven/extract"
	llmopenai "github.com/custodia-labs/docask-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docask-cli/internal/adapters/driven/storage/sqlite"
	vectorfile "github.com/custodia-labs/docask-cli/internal/adapters/driven/vectorstore/file"
	"github.com/custodia-labs/docask-cli/internal/chunker"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/core/services"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

// Services wired by initServices and shared by the commands.
var (
	settings      configfile.Settings
	registryStore *sqlite.Store
	ingestService driving.IngestService
	askService    driving.AskService
)

var rootCmd = &cobra.Command{
	Use:   "docask",
	Short: "Ask questions against a single document",
	Long: `Docask answers natural-language questions against one uploaded
document by retrieving relevant passages and grounding an answer in
them, with a calibrated confidence score and guardrails.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		switch cmd.Name() {
		case "version", "help", "eval":
			// Offline commands need no service wiring.
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if registryStore != nil {
			registryStore.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.docask)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.docask/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires stores, adapters and core services.
// The embedding and LLM services are optional: without an API key the
// pipeline degrades instead of failing at startup.
func initServices() error {
	store, err := configfile.NewStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings, err = store.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = settings.DataDir
	}

	vectors, err := vectorfile.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}

	registryStore, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}

	var embedder driven.EmbeddingService
	var llm driven.LLMService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		embedder, err = embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey: apiKey,
			Model:  settings.OpenAIEmbeddingModel,
		})
		if err != nil {
			return fmt.Errorf("configuring embedding service: %w", err)
		}
		llm, err = llmopenai.NewLLMService(llmopenai.Config{
			APIKey: apiKey,
			Model:  settings.OpenAIModel,
		})
		if err != nil {
			return fmt.Errorf("configuring LLM service: %w", err)
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set: ingest and ask are unavailable")
	}

	chunks := chunker.New(
		chunker.WithMaxChars(settings.MaxChars),
		chunker.WithOverlapChars(settings.OverlapChars),
	)

	ingestService = services.NewIngestor(extract.New(), embedder, vectors, registryStore, chunks)

	retriever := services.NewRetriever(vectors, embedder,
		services.WithKeywordAlpha(settings.KeywordAlpha))
	askService = services.NewAsker(retriever, llm,
		services.WithMinSimilarity(settings.MinSimilarity),
		services.WithTopK(settings.TopK))

	return nil
}
