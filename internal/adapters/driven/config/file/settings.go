// Package file provides TOML-backed settings for the Docask CLI.
// Settings are stored in ~/.docask/config.toml; secrets (API keys)
// come from the environment, never from the file.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// configFileName is the settings filename inside the config directory.
const configFileName = "config.toml"

// Settings holds the tunable configuration of the pipeline.
type Settings struct {
	// DataDir is where per-document index artifacts and the registry
	// database live. Empty means ~/.docask/data.
	DataDir string `toml:"data_dir"`

	// MaxChars is the chunk size budget in characters.
	MaxChars int `toml:"max_chars"`

	// OverlapChars is the hard-split overlap in characters.
	OverlapChars int `toml:"overlap_chars"`

	// TopK is how many sources are returned per question.
	TopK int `toml:"top_k"`

	// MinSimilarity is the guardrail threshold on raw top similarity.
	MinSimilarity float64 `toml:"min_similarity"`

	// KeywordAlpha is the keyword weight in the blended rerank score.
	KeywordAlpha float64 `toml:"keyword_alpha"`

	// OpenAIModel is the chat model used for answering.
	OpenAIModel string `toml:"openai_model"`

	// OpenAIEmbeddingModel is the embedding model used for indexing.
	OpenAIEmbeddingModel string `toml:"openai_embedding_model"`
}

// DefaultSettings returns the tuned defaults.
func DefaultSettings() Settings {
	return Settings{
		MaxChars:             2200,
		OverlapChars:         200,
		TopK:                 6,
		MinSimilarity:        0.35,
		KeywordAlpha:         0.25,
		OpenAIModel:          "gpt-4o-mini",
		OpenAIEmbeddingModel: "text-embedding-3-small",
	}
}

// Store loads and saves settings from a TOML file.
type Store struct {
	filePath string
}

// NewStore creates a settings store in configDir.
// If configDir is empty, defaults to ~/.docask.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docask")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &Store{filePath: filepath.Join(configDir, configFileName)}, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads settings, filling in defaults for anything unset.
// A missing file yields the defaults, not an error.
func (s *Store) Load() (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings: %w", err)
	}

	applyDefaults(&settings)
	return settings, nil
}

// Save writes settings to the file.
func (s *Store) Save(settings Settings) error {
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// applyDefaults backfills zero values so a sparse file stays usable.
func applyDefaults(s *Settings) {
	def := DefaultSettings()
	if s.MaxChars <= 0 {
		s.MaxChars = def.MaxChars
	}
	if s.OverlapChars < 0 {
		s.OverlapChars = def.OverlapChars
	}
	if s.TopK <= 0 {
		s.TopK = def.TopK
	}
	if s.MinSimilarity <= 0 {
		s.MinSimilarity = def.MinSimilarity
	}
	if s.KeywordAlpha < 0 {
		s.KeywordAlpha = def.KeywordAlpha
	}
	if s.OpenAIModel == "" {
		s.OpenAIModel = def.OpenAIModel
	}
	if s.OpenAIEmbeddingModel == "" {
		s.OpenAIEmbeddingModel = def.OpenAIEmbeddingModel
	}
}
