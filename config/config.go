// Package config loads the YAML application configuration. A missing file
// yields defaults; a present file overrides only the fields it names.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/lectio/classify"
	"github.com/tsawler/lectio/engine"
	"github.com/tsawler/lectio/rank"
	"github.com/tsawler/lectio/refine"
)

// ClassifierConfig tunes the heading classifier. Zero fields fall back to
// the classifier defaults.
type ClassifierConfig struct {
	Weights          classify.Weights `yaml:"weights"`
	ThresholdFloor   float64          `yaml:"threshold_floor"`
	ThresholdCeiling float64          `yaml:"threshold_ceiling"`
	MaxHeadingWords  int              `yaml:"max_heading_words"`
	TitlePageLimit   int              `yaml:"title_page_limit"`
}

// RankerConfig tunes the relevance ranker.
type RankerConfig struct {
	SemanticWeight   float64 `yaml:"semantic_weight"`
	StructuralWeight float64 `yaml:"structural_weight"`
	SnippetRunes     int     `yaml:"snippet_runes"`
	PerDocumentCap   int     `yaml:"per_document_cap"`
}

// RefinerConfig tunes the section refiner.
type RefinerConfig struct {
	MaxBodyRunes    int `yaml:"max_body_runes"`
	MaxOutputTokens int `yaml:"max_output_tokens"`
	FallbackWords   int `yaml:"fallback_words"`
}

// EngineConfig tunes collection processing.
type EngineConfig struct {
	Workers         int `yaml:"workers"`
	TopSections     int `yaml:"top_sections"`
	ModelGuardWidth int `yaml:"model_guard_width"`
}

// OpenAIEmbedderConfig holds settings for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects the embedder implementation: "tfidf" (default,
// fully local) or "openai".
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// AppConfig is the root configuration.
type AppConfig struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Ranker     RankerConfig     `yaml:"ranker"`
	Refiner    RefinerConfig    `yaml:"refiner"`
	Engine     EngineConfig     `yaml:"engine"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
}

// Load reads a config from path. If the file does not exist, returns
// defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the full default configuration.
func Default() *AppConfig {
	cfg := &AppConfig{Embedder: EmbedderConfig{Type: "tfidf"}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	cd := classify.DefaultConfig()
	if cfg.Classifier.Weights.Sum() == 0 {
		cfg.Classifier.Weights = cd.SignalWeights
	}
	if cfg.Classifier.ThresholdFloor == 0 {
		cfg.Classifier.ThresholdFloor = cd.ThresholdFloor
	}
	if cfg.Classifier.ThresholdCeiling == 0 {
		cfg.Classifier.ThresholdCeiling = cd.ThresholdCeiling
	}
	if cfg.Classifier.MaxHeadingWords == 0 {
		cfg.Classifier.MaxHeadingWords = cd.MaxHeadingWords
	}
	if cfg.Classifier.TitlePageLimit == 0 {
		cfg.Classifier.TitlePageLimit = cd.TitlePageLimit
	}

	rd := rank.DefaultConfig()
	if cfg.Ranker.SemanticWeight == 0 && cfg.Ranker.StructuralWeight == 0 {
		cfg.Ranker.SemanticWeight = rd.SemanticWeight
		cfg.Ranker.StructuralWeight = rd.StructuralWeight
	}
	if cfg.Ranker.SnippetRunes == 0 {
		cfg.Ranker.SnippetRunes = rd.SnippetRunes
	}
	if cfg.Ranker.PerDocumentCap == 0 {
		cfg.Ranker.PerDocumentCap = rd.PerDocumentCap
	}

	fd := refine.DefaultConfig()
	if cfg.Refiner.MaxBodyRunes == 0 {
		cfg.Refiner.MaxBodyRunes = fd.MaxBodyRunes
	}
	if cfg.Refiner.MaxOutputTokens == 0 {
		cfg.Refiner.MaxOutputTokens = fd.MaxOutputTokens
	}
	if cfg.Refiner.FallbackWords == 0 {
		cfg.Refiner.FallbackWords = fd.FallbackWords
	}

	if cfg.Engine.TopSections == 0 {
		cfg.Engine.TopSections = 5
	}
	if cfg.Engine.ModelGuardWidth == 0 {
		cfg.Engine.ModelGuardWidth = 1
	}

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		o := cfg.Embedder.OpenAI
		if o.BaseURL == "" {
			o.BaseURL = "https://api.openai.com/v1"
		}
		if o.APIKeyEnv == "" {
			o.APIKeyEnv = "OPENAI_API_KEY"
		}
		if o.Model == "" {
			o.Model = "text-embedding-3-small"
		}
		if o.TimeoutSecs == 0 {
			o.TimeoutSecs = 30
		}
	}
}

// ClassifierOptions converts the config section into classifier options.
func (c *AppConfig) ClassifierOptions() classify.Config {
	out := classify.DefaultConfig()
	out.SignalWeights = c.Classifier.Weights
	out.ThresholdFloor = c.Classifier.ThresholdFloor
	out.ThresholdCeiling = c.Classifier.ThresholdCeiling
	out.MaxHeadingWords = c.Classifier.MaxHeadingWords
	out.TitlePageLimit = c.Classifier.TitlePageLimit
	return out
}

// RankerOptions converts the config section into ranker options.
func (c *AppConfig) RankerOptions() rank.Config {
	out := rank.DefaultConfig()
	out.SemanticWeight = c.Ranker.SemanticWeight
	out.StructuralWeight = c.Ranker.StructuralWeight
	out.SnippetRunes = c.Ranker.SnippetRunes
	out.PerDocumentCap = c.Ranker.PerDocumentCap
	return out
}

// RefinerOptions converts the config section into refiner options.
func (c *AppConfig) RefinerOptions() refine.Config {
	return refine.Config{
		MaxBodyRunes:    c.Refiner.MaxBodyRunes,
		MaxOutputTokens: c.Refiner.MaxOutputTokens,
		FallbackWords:   c.Refiner.FallbackWords,
	}
}

// EngineOptions converts the config into engine options.
func (c *AppConfig) EngineOptions() engine.Config {
	return engine.Config{
		Workers:     c.Engine.Workers,
		TopSections: c.Engine.TopSections,
		Classifier:  c.ClassifierOptions(),
		Ranker:      c.RankerOptions(),
		Refiner:     c.RefinerOptions(),
	}
}

// OpenAIOptions converts the embedder section into embedder options. Only
// valid when the embedder type is "openai".
func (c *AppConfig) OpenAIOptions() rank.OpenAIConfig {
	o := c.Embedder.OpenAI
	if o == nil {
		return rank.OpenAIConfig{}
	}
	return rank.OpenAIConfig{
		BaseURL:   o.BaseURL,
		APIKeyEnv: o.APIKeyEnv,
		Model:     o.Model,
		Timeout:   time.Duration(o.TimeoutSecs) * time.Second,
	}
}
