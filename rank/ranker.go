package rank

import (
	"context"
	"fmt"
	"sort"

	"github.com/tsawler/lectio/outline"
)

// Config holds configuration for the relevance ranker. The weights are
// tunables, not invariants: the semantic signal dominates by default.
type Config struct {
	// SemanticWeight scales the embedding similarity score
	// Default: 0.7
	SemanticWeight float64 `yaml:"semantic_weight"`

	// StructuralWeight scales the structural importance score
	// Default: 0.3
	StructuralWeight float64 `yaml:"structural_weight"`

	// SnippetRunes bounds how much of a section body is embedded along
	// with its title, capping embedding compute
	// Default: 300
	SnippetRunes int `yaml:"snippet_runes"`

	// PerDocumentCap limits how many sections per document survive into
	// the global ranking
	// Default: 20
	PerDocumentCap int `yaml:"per_document_cap"`

	// LevelBlend and WordCountBlend mix the two structural components
	// Defaults: 0.6 and 0.4
	LevelBlend     float64 `yaml:"level_blend"`
	WordCountBlend float64 `yaml:"word_count_blend"`
}

// DefaultConfig returns the ranker configuration with semantic-dominant
// weighting.
func DefaultConfig() Config {
	return Config{
		SemanticWeight:   0.7,
		StructuralWeight: 0.3,
		SnippetRunes:     300,
		PerDocumentCap:   20,
		LevelBlend:       0.6,
		WordCountBlend:   0.4,
	}
}

// RankedSection is a section with its relevance scores and final importance
// rank. It is immutable once emitted.
type RankedSection struct {
	outline.Section

	// SemanticScore is the rescaled cosine similarity in [0,1]
	SemanticScore float64

	// StructuralScore reflects heading depth and body substance in [0,1]
	StructuralScore float64

	// CombinedScore is the weighted blend driving the ranking
	CombinedScore float64

	// ImportanceRank is the 1-based global rank, unique within a run
	ImportanceRank int
}

// Exclusion records a section left out of the ranking because its embedding
// call failed.
type Exclusion struct {
	// DocumentID and Title identify the excluded section
	DocumentID string
	Title      string

	// Page is the section's starting page
	Page int

	// Err is the embedding failure
	Err error
}

// Ranking is the outcome of ranking one collection.
type Ranking struct {
	// Sections are the ranked sections, best first, ranks 1..K
	// contiguous
	Sections []RankedSection

	// Excluded lists sections dropped due to embedding failures
	Excluded []Exclusion
}

// Ranker scores sections against a query and orders them globally across a
// collection.
type Ranker struct {
	embedder Embedder
	config   Config
}

// NewRanker creates a ranker with the default configuration
func NewRanker(embedder Embedder) *Ranker {
	return &Ranker{embedder: embedder, config: DefaultConfig()}
}

// NewRankerWithConfig creates a ranker with a custom configuration
func NewRankerWithConfig(embedder Embedder, config Config) *Ranker {
	return &Ranker{embedder: embedder, config: config}
}

// Rank embeds the query and every section, blends semantic and structural
// scores, and returns the ranked sections. docOrder is the manifest order
// of document IDs and drives deterministic tie-breaking; final ordering is
// independent of how the caller scheduled the work that produced sections.
func (r *Ranker) Rank(ctx context.Context, query Query, sections []outline.Section, docOrder []string) (*Ranking, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("empty relevance query")
	}

	queryVec, err := r.embedder.Embed(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	order := make(map[string]int, len(docOrder))
	for i, id := range docOrder {
		order[id] = i
	}
	docIndex := func(id string) int {
		if i, ok := order[id]; ok {
			return i
		}
		return len(order)
	}

	ranking := &Ranking{}
	var scored []RankedSection
	for _, sec := range sections {
		vec, err := r.embedder.Embed(ctx, r.embedText(sec))
		if err != nil {
			ranking.Excluded = append(ranking.Excluded, Exclusion{
				DocumentID: sec.DocumentID,
				Title:      sec.Title,
				Page:       sec.Page,
				Err:        err,
			})
			continue
		}

		semantic := rescaleCosine(CosineSimilarity(queryVec, vec))
		structural := r.structuralScore(sec)

		scored = append(scored, RankedSection{
			Section:         sec,
			SemanticScore:   semantic,
			StructuralScore: structural,
			CombinedScore:   r.config.SemanticWeight*semantic + r.config.StructuralWeight*structural,
		})
	}

	scored = r.capPerDocument(scored)

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		if docIndex(a.DocumentID) != docIndex(b.DocumentID) {
			return docIndex(a.DocumentID) < docIndex(b.DocumentID)
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Title < b.Title
	})

	for i := range scored {
		scored[i].ImportanceRank = i + 1
	}
	ranking.Sections = scored

	return ranking, nil
}

// embedText builds the text embedded for a section: its title plus a
// bounded prefix of its body.
func (r *Ranker) embedText(sec outline.Section) string {
	snippet := []rune(sec.Body)
	if len(snippet) > r.config.SnippetRunes {
		snippet = snippet[:r.config.SnippetRunes]
	}
	return sec.Title + ": " + string(snippet)
}

// levelWeights maps heading depth to structural importance. Title and H1
// sections carry the most weight.
var levelWeights = map[int]float64{
	0: 1.0, // title
	1: 1.0,
	2: 0.8,
	3: 0.6,
	4: 0.45,
	5: 0.35,
	6: 0.3,
}

// structuralScore blends heading depth with a word-count band that rewards
// substantive but bounded section bodies.
func (r *Ranker) structuralScore(sec outline.Section) float64 {
	lw, ok := levelWeights[sec.Level]
	if !ok {
		lw = 0.3
	}
	return r.config.LevelBlend*lw + r.config.WordCountBlend*wordCountFactor(sec.WordCount)
}

// wordCountFactor is a trapezoidal membership over body length: very short
// fragments and extremely long dumps are penalized, well-formed sections
// land on the plateau.
func wordCountFactor(words int) float64 {
	const (
		riseStart = 10
		plateauLo = 40
		plateauHi = 600
		fadeEnd   = 3000
		floor     = 0.2
	)

	switch {
	case words <= riseStart:
		return floor * float64(words) / riseStart
	case words < plateauLo:
		return floor + (1-floor)*float64(words-riseStart)/float64(plateauLo-riseStart)
	case words <= plateauHi:
		return 1.0
	case words >= fadeEnd:
		return floor
	default:
		return 1.0 - (1-floor)*float64(words-plateauHi)/float64(fadeEnd-plateauHi)
	}
}

// capPerDocument keeps only the top-scoring sections of each document,
// preserving input order otherwise.
func (r *Ranker) capPerDocument(scored []RankedSection) []RankedSection {
	if r.config.PerDocumentCap <= 0 {
		return scored
	}

	perDoc := make(map[string][]int)
	for i, s := range scored {
		perDoc[s.DocumentID] = append(perDoc[s.DocumentID], i)
	}

	keep := make(map[int]bool, len(scored))
	for _, idxs := range perDoc {
		sorted := append([]int(nil), idxs...)
		sort.SliceStable(sorted, func(a, b int) bool {
			return scored[sorted[a]].CombinedScore > scored[sorted[b]].CombinedScore
		})
		for n, i := range sorted {
			if n >= r.config.PerDocumentCap {
				break
			}
			keep[i] = true
		}
	}

	var out []RankedSection
	for i, s := range scored {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out
}
