package refine

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ExtractiveGenerator is a deterministic local Generator. It ranks the
// sentences of the prompt by normalized word frequency (stopwords filtered)
// and returns the top sentences in their original order, which makes the
// full pipeline runnable without any external generation service.
type ExtractiveGenerator struct {
	tokenPattern    *regexp.Regexp
	sentencePattern *regexp.Regexp
	stopwords       map[string]struct{}
}

// NewExtractiveGenerator creates a frequency-based extractive generator.
func NewExtractiveGenerator() *ExtractiveGenerator {
	return &ExtractiveGenerator{
		tokenPattern:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentencePattern: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:       defaultStopwords(),
	}
}

// Generate returns an extractive summary of the prompt. maxTokens bounds the
// output length: roughly one sentence per 30 tokens, at least one and at
// most five.
func (g *ExtractiveGenerator) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	maxSentences := maxTokens / 30
	if maxSentences < 1 {
		maxSentences = 1
	}
	if maxSentences > 5 {
		maxSentences = 5
	}

	sentences := g.sentencePattern.FindAllString(prompt, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(prompt), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range g.tokens(sent) {
			if _, ok := g.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		s := 0.0
		toks := g.tokens(sent)
		for _, tok := range toks {
			if v, ok := freq[tok]; ok {
				s += v
			}
		}
		// Length normalization keeps long sentences from dominating.
		if l := float64(len(toks)); l > 0 {
			s /= math.Sqrt(l)
		}
		scores[i] = scored{i, s}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	var out []string
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (g *ExtractiveGenerator) tokens(text string) []string {
	return g.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "than",
		"so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
