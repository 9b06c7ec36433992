package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/lectio/rank"
)

// Generator is the external text-generation collaborator. A failed call
// returns a non-nil error; an empty string with a nil error is an
// empty-but-successful result, and the two are treated differently by the
// refiner only in what it records as the degradation reason.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Config holds configuration for the section refiner.
type Config struct {
	// MaxBodyRunes bounds how much section body goes into the prompt
	// Default: 1500
	MaxBodyRunes int `yaml:"max_body_runes"`

	// MaxOutputTokens bounds the requested generation length
	// Default: 150
	MaxOutputTokens int `yaml:"max_output_tokens"`

	// FallbackWords is how many body words the fallback extract keeps
	// Default: 50
	FallbackWords int `yaml:"fallback_words"`
}

// DefaultConfig returns the refiner defaults
func DefaultConfig() Config {
	return Config{
		MaxBodyRunes:    1500,
		MaxOutputTokens: 150,
		FallbackWords:   50,
	}
}

// Result is one refined section text.
type Result struct {
	// DocumentID, Title and Page identify the section
	DocumentID string
	Title      string
	Page       int

	// Text is the refined text, or the fallback extract when degraded
	Text string

	// Degraded is true when generation failed or returned nothing and
	// the original body was used instead
	Degraded bool

	// Reason describes the degradation, empty otherwise
	Reason string
}

// Refiner assembles prompts for the generation collaborator and validates
// its output.
type Refiner struct {
	generator Generator
	config    Config
}

// NewRefiner creates a refiner with the default configuration
func NewRefiner(generator Generator) *Refiner {
	return &Refiner{generator: generator, config: DefaultConfig()}
}

// NewRefinerWithConfig creates a refiner with a custom configuration
func NewRefinerWithConfig(generator Generator, config Config) *Refiner {
	return &Refiner{generator: generator, config: config}
}

// Refine produces the refined text for one ranked section.
func (r *Refiner) Refine(ctx context.Context, query rank.Query, sec rank.RankedSection) Result {
	result := Result{
		DocumentID: sec.DocumentID,
		Title:      sec.Title,
		Page:       sec.Page,
	}

	body := truncateRunes(sec.Body, r.config.MaxBodyRunes)
	if strings.TrimSpace(body) == "" {
		result.Text = "No relevant content available."
		result.Degraded = true
		result.Reason = "section body empty"
		return result
	}

	prompt := r.buildPrompt(query, sec.Title, body)

	text, err := r.generator.Generate(ctx, prompt, r.config.MaxOutputTokens)
	switch {
	case err != nil:
		result.Text = r.fallback(sec.Body, query)
		result.Degraded = true
		result.Reason = fmt.Sprintf("generation failed: %v", err)
	case strings.TrimSpace(text) == "":
		result.Text = r.fallback(sec.Body, query)
		result.Degraded = true
		result.Reason = "generation returned empty text"
	default:
		result.Text = strings.TrimSpace(text)
	}

	return result
}

// RefineAll refines every section in rank order.
func (r *Refiner) RefineAll(ctx context.Context, query rank.Query, sections []rank.RankedSection) []Result {
	results := make([]Result, 0, len(sections))
	for _, sec := range sections {
		results = append(results, r.Refine(ctx, query, sec))
	}
	return results
}

// buildPrompt assembles the generation prompt from the query and section.
func (r *Refiner) buildPrompt(query rank.Query, title, body string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following section for this reader. ")
	sb.WriteString(query.Text)
	sb.WriteString("\n\nSection: ")
	sb.WriteString(title)
	sb.WriteString("\nText: ")
	sb.WriteString(body)
	sb.WriteString("\n\nProvide a concise summary:\n")
	sb.WriteString("- Main purpose: one sentence\n")
	sb.WriteString("- Key points: up to three brief bullets\n")
	sb.WriteString("- Relevance: why this matters for the job, one sentence\n")
	return sb.String()
}

// fallback builds the degraded refined text: a bounded extract of the
// original body plus a relevance note.
func (r *Refiner) fallback(body string, query rank.Query) string {
	words := strings.Fields(body)
	extract := strings.Join(words, " ")
	if len(words) > r.config.FallbackWords {
		extract = strings.Join(words[:r.config.FallbackWords], " ") + "..."
	}
	return extract + "\n\nRelevance: this section was selected for: " + query.Text
}

// truncateRunes bounds a string to n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
