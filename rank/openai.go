package rank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// OpenAIEmbedder is a client for OpenAI-compatible embedding endpoints
// (including local inference servers exposing the same API).
type OpenAIEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	client    *http.Client
	dimension int
}

// OpenAIConfig configures the OpenAI-compatible embedding client.
type OpenAIConfig struct {
	// BaseURL is the API root
	// Default: https://api.openai.com/v1
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// Default: OPENAI_API_KEY
	APIKeyEnv string `yaml:"api_key_env"`

	// Model is the embedding model name
	// Default: text-embedding-3-small
	Model string `yaml:"model"`

	// Timeout bounds each HTTP call
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// NewOpenAIEmbedder creates an embedding client from the configuration.
// The API key is read from the configured environment variable.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &OpenAIEmbedder{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Dimension returns the vector dimensionality, learned from the first
// successful Embed call
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Embed requests an embedding vector for the given text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}{Input: text, Model: e.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding returned")
	}

	vec := out.Data[0].Embedding
	if e.dimension == 0 {
		e.dimension = len(vec)
	}
	return vec, nil
}
