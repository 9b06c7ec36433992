package refine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/lectio/outline"
	"github.com/tsawler/lectio/rank"
)

// scriptedGenerator returns a fixed response or error.
type scriptedGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *scriptedGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func rankedSection(title, body string) rank.RankedSection {
	return rank.RankedSection{
		Section: outline.Section{
			DocumentID: "doc.pdf",
			Title:      title,
			Level:      1,
			Page:       3,
			Body:       body,
			WordCount:  len(strings.Fields(body)),
		},
		ImportanceRank: 1,
	}
}

func testQuery() rank.Query {
	return rank.NewQuery(
		rank.Persona{Role: "Travel Planner"},
		rank.Job{Task: "Plan a trip for college friends"},
	)
}

func TestRefineSuccess(t *testing.T) {
	gen := &scriptedGenerator{response: "  A focused summary of the section.  "}
	r := NewRefiner(gen)

	res := r.Refine(context.Background(), testQuery(), rankedSection("Coastal Adventures", "The coast offers beaches and water sports."))

	if res.Degraded {
		t.Errorf("unexpected degradation: %s", res.Reason)
	}
	if res.Text != "A focused summary of the section." {
		t.Errorf("expected trimmed generator output, got %q", res.Text)
	}
	if res.DocumentID != "doc.pdf" || res.Page != 3 {
		t.Errorf("section identity not carried: %+v", res)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one generation call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Coastal Adventures") {
		t.Error("prompt missing section title")
	}
	if !strings.Contains(gen.prompts[0], "Travel Planner") {
		t.Error("prompt missing query")
	}
}

func TestRefineFallbackOnError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("model unavailable")}
	r := NewRefiner(gen)
	body := "The coast offers beaches and water sports for every visitor."

	res := r.Refine(context.Background(), testQuery(), rankedSection("Coastal Adventures", body))

	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	if !strings.Contains(res.Reason, "generation failed") {
		t.Errorf("unexpected reason: %s", res.Reason)
	}
	if !strings.HasPrefix(res.Text, "The coast offers") {
		t.Errorf("fallback should start with the body extract, got %q", res.Text)
	}
	if !strings.Contains(res.Text, "Relevance:") {
		t.Error("fallback missing relevance note")
	}
}

func TestRefineFallbackOnEmptyOutput(t *testing.T) {
	gen := &scriptedGenerator{response: "   "}
	r := NewRefiner(gen)

	res := r.Refine(context.Background(), testQuery(), rankedSection("Overview", "Some body text here."))

	if !res.Degraded {
		t.Fatal("expected degraded result for empty generation")
	}
	if res.Reason != "generation returned empty text" {
		t.Errorf("unexpected reason: %s", res.Reason)
	}
}

func TestRefineEmptyBody(t *testing.T) {
	gen := &scriptedGenerator{response: "should not be called"}
	r := NewRefiner(gen)

	res := r.Refine(context.Background(), testQuery(), rankedSection("Empty", "   "))

	if !res.Degraded {
		t.Fatal("expected degraded result for empty body")
	}
	if len(gen.prompts) != 0 {
		t.Error("generator should not be called for empty bodies")
	}
}

func TestFallbackWordBound(t *testing.T) {
	words := make([]string, 80)
	for i := range words {
		words[i] = "word"
	}
	gen := &scriptedGenerator{err: errors.New("down")}
	r := NewRefinerWithConfig(gen, Config{MaxBodyRunes: 1500, MaxOutputTokens: 150, FallbackWords: 50})

	res := r.Refine(context.Background(), testQuery(), rankedSection("Long", strings.Join(words, " ")))

	extract := strings.SplitN(res.Text, "\n\n", 2)[0]
	got := len(strings.Fields(extract))
	if got != 50 {
		t.Errorf("expected 50-word extract, got %d words", got)
	}
	if !strings.HasSuffix(extract, "...") {
		t.Error("truncated extract should end with ellipsis")
	}
}

func TestRefineAllPreservesOrder(t *testing.T) {
	gen := &scriptedGenerator{response: "summary"}
	r := NewRefiner(gen)

	sections := []rank.RankedSection{
		rankedSection("First", "Body one."),
		rankedSection("Second", "Body two."),
		rankedSection("Third", "Body three."),
	}
	results := r.RefineAll(context.Background(), testQuery(), sections)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if results[i].Title != want {
			t.Errorf("result %d: expected %s, got %s", i, want, results[i].Title)
		}
	}
}

func TestExtractiveGenerator(t *testing.T) {
	g := NewExtractiveGenerator()
	prompt := "The beach towns of the coast are famous for sailing. Sailing lessons run all " +
		"summer along the coast. The local museum covers sailing history in depth. " +
		"Restaurants nearby serve seafood."

	out, err := g.Generate(context.Background(), prompt, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected non-empty summary")
	}
	sentences := strings.Count(out, ".")
	if sentences > 2 {
		t.Errorf("expected at most 2 sentences for 60 tokens, got %d", sentences)
	}
	if !strings.Contains(strings.ToLower(out), "sailing") {
		t.Errorf("expected dominant topic in summary, got %q", out)
	}
}

func TestExtractiveGeneratorDeterministic(t *testing.T) {
	g := NewExtractiveGenerator()
	prompt := "One sentence here. Another sentence there. A third sentence follows."

	first, _ := g.Generate(context.Background(), prompt, 90)
	for i := 0; i < 5; i++ {
		next, _ := g.Generate(context.Background(), prompt, 90)
		if next != first {
			t.Fatalf("output changed between runs: %q vs %q", first, next)
		}
	}
}
