package classify

import (
	"sort"
	"strings"

	"github.com/tsawler/lectio/model"
)

// Level is the hierarchy classification of a block: the document title,
// a heading level H1-H6, or body text.
type Level int

const (
	// LevelBody is regular body text (not a heading)
	LevelBody Level = iota
	// LevelTitle is the document title
	LevelTitle
	// LevelH1 is a top-level heading
	LevelH1
	// LevelH2 is a major section heading
	LevelH2
	// LevelH3 is a subsection heading
	LevelH3
	// LevelH4 is a sub-subsection heading
	LevelH4
	// LevelH5 is a minor heading
	LevelH5
	// LevelH6 is the deepest heading level
	LevelH6
)

// String returns a string representation of the level
func (l Level) String() string {
	switch l {
	case LevelTitle:
		return "title"
	case LevelH1:
		return "h1"
	case LevelH2:
		return "h2"
	case LevelH3:
		return "h3"
	case LevelH4:
		return "h4"
	case LevelH5:
		return "h5"
	case LevelH6:
		return "h6"
	default:
		return "body"
	}
}

// Depth returns the numeric heading depth (1 for H1 through 6 for H6).
// Title is depth 0; body text reports -1.
func (l Level) Depth() int {
	switch {
	case l == LevelTitle:
		return 0
	case l >= LevelH1 && l <= LevelH6:
		return int(l - LevelH1 + 1)
	default:
		return -1
	}
}

// HeadingLevel converts a 1-6 depth to the corresponding heading level,
// capped at H6.
func HeadingLevel(depth int) Level {
	if depth < 1 {
		depth = 1
	}
	if depth > 6 {
		depth = 6
	}
	return LevelH1 + Level(depth-1)
}

// Signals holds the per-signal membership sub-scores that produced a
// candidate's composite score, kept for explainability and testing.
type Signals struct {
	FontSize   float64
	Length     float64
	Pattern    float64
	Semantic   float64
	Typography float64
	Position   float64
	Whitespace float64
}

// WeightedSum blends the sub-scores with the given weights
func (s Signals) WeightedSum(w Weights) float64 {
	return s.FontSize*w.FontSize +
		s.Length*w.Length +
		s.Pattern*w.Pattern +
		s.Semantic*w.Semantic +
		s.Typography*w.Typography +
		s.Position*w.Position +
		s.Whitespace*w.Whitespace
}

// Candidate is a text block annotated with its composite headingness score,
// predicted level, and the sub-scores that produced it.
type Candidate struct {
	// Block is the classified text block
	Block model.TextBlock

	// Score is the composite headingness score in [0,1]
	Score float64

	// Level is the predicted hierarchy level
	Level Level

	// Signals are the per-signal sub-scores
	Signals Signals

	// LevelOverride is set when explicit numbering depth overrode the
	// level implied by font-size clustering
	LevelOverride bool
}

// IsHeading returns true if the candidate was classified as a title or
// heading rather than body text
func (c Candidate) IsHeading() bool {
	return c.Level != LevelBody
}

// BlockContext carries reading-order information the classifier cannot see
// from a single block.
type BlockContext struct {
	// FirstOnPage is true when the block is the first block on its page
	FirstOnPage bool
}

// Result holds the classification outcome for one document.
type Result struct {
	// Candidates are all scored blocks in reading order, including those
	// classified as body text
	Candidates []Candidate

	// Threshold is the document-adaptive acceptance threshold used
	Threshold float64

	// Degenerate is true when the fuzzy score distribution was too flat
	// for confident detection and the classifier fell back to structural
	// pattern evidence only
	Degenerate bool
}

// Accepted returns the candidates classified as title or headings, in
// reading order
func (r *Result) Accepted() []Candidate {
	var out []Candidate
	for _, c := range r.Candidates {
		if c.IsHeading() {
			out = append(out, c)
		}
	}
	return out
}

// Classifier combines seven independent membership scores into one
// composite headingness score per block and estimates hierarchy levels.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with the default configuration
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with a custom configuration
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Score computes the composite headingness score and sub-scores for a
// single block. The score is always in [0,1] because each membership is in
// [0,1] and the weights sum to 1.0.
func (c *Classifier) Score(block model.TextBlock, ctx BlockContext, profile FontProfile) Candidate {
	signals := Signals{
		FontSize:   c.fontSizeMembership(block, profile),
		Length:     c.lengthMembership(block),
		Pattern:    c.patternMembership(block),
		Semantic:   c.semanticMembership(block),
		Typography: c.typographyMembership(block),
		Position:   c.positionMembership(ctx),
		Whitespace: c.whitespaceMembership(block),
	}

	return Candidate{
		Block:   block,
		Score:   signals.WeightedSum(c.config.SignalWeights),
		Level:   LevelBody,
		Signals: signals,
	}
}

// ClassifyDocument scores every block in the document, derives the adaptive
// acceptance threshold, and assigns hierarchy levels to accepted candidates.
func (c *Classifier) ClassifyDocument(doc *model.Document, profile FontProfile) *Result {
	result := &Result{}

	prevPage := 0
	for _, block := range doc.Blocks {
		ctx := BlockContext{FirstOnPage: block.Page != prevPage}
		prevPage = block.Page
		result.Candidates = append(result.Candidates, c.Score(block, ctx, profile))
	}

	result.Threshold = c.adaptiveThreshold(result.Candidates)

	accepted := c.acceptCandidates(result.Candidates, result.Threshold)
	if len(accepted) == 0 && !doc.IsEmpty() {
		// Too sparse or uniform for the fuzzy blend. Fall back to
		// structural pattern evidence alone, and failing that promote
		// a single block, so a non-empty document never yields an
		// empty candidate set.
		result.Degenerate = true
		accepted = c.structuralFallback(result.Candidates)
		if len(accepted) == 0 {
			accepted = c.lastResort(result.Candidates)
		}
	}

	c.assignLevels(result.Candidates, accepted, profile)

	return result
}

// adaptiveThreshold derives the acceptance threshold from the upper quartile
// of the block score distribution, clamped to the configured floor and
// ceiling.
func (c *Classifier) adaptiveThreshold(candidates []Candidate) float64 {
	if len(candidates) == 0 {
		return c.config.ThresholdFloor
	}

	scores := make([]float64, 0, len(candidates))
	for _, cand := range candidates {
		scores = append(scores, cand.Score)
	}
	sort.Float64s(scores)

	threshold := percentile(scores, 75)
	if threshold < c.config.ThresholdFloor {
		threshold = c.config.ThresholdFloor
	}
	if threshold > c.config.ThresholdCeiling {
		threshold = c.config.ThresholdCeiling
	}
	return threshold
}

// acceptCandidates returns the indices of candidates whose score exceeds
// the threshold and which survive the obvious non-heading prefilter.
func (c *Classifier) acceptCandidates(candidates []Candidate, threshold float64) []int {
	var accepted []int
	for i, cand := range candidates {
		if cand.Score <= threshold {
			continue
		}
		if c.obviousNonHeading(cand.Block) {
			continue
		}
		accepted = append(accepted, i)
	}
	return accepted
}

// structuralFallback accepts blocks with unambiguous structural or
// archetype evidence, used when the fuzzy distribution is degenerate.
func (c *Classifier) structuralFallback(candidates []Candidate) []int {
	var accepted []int
	for i, cand := range candidates {
		if c.obviousNonHeading(cand.Block) {
			continue
		}
		if cand.Signals.Pattern >= 1.0 || cand.Signals.Semantic >= 1.0 {
			accepted = append(accepted, i)
		}
	}
	return accepted
}

// lastResort promotes a single block when neither the fuzzy blend nor the
// structural fallback accepted anything: the largest-font block that
// survives the prefilter, or failing that the first block with any text.
// A document with text always yields at least one heading candidate.
func (c *Classifier) lastResort(candidates []Candidate) []int {
	best := -1
	for i, cand := range candidates {
		if strings.TrimSpace(cand.Block.Text) == "" {
			continue
		}
		if c.obviousNonHeading(cand.Block) {
			continue
		}
		if best == -1 || cand.Block.FontSize > candidates[best].Block.FontSize {
			best = i
		}
	}
	if best == -1 {
		for i, cand := range candidates {
			if strings.TrimSpace(cand.Block.Text) != "" {
				best = i
				break
			}
		}
	}
	if best == -1 {
		return nil
	}
	return []int{best}
}

// obviousNonHeading prefilters blocks that cannot be headings regardless of
// their fuzzy score: long paragraphs, multi-sentence runs, and sentence
// continuations.
func (c *Classifier) obviousNonHeading(block model.TextBlock) bool {
	if block.WordCount() > c.config.MaxHeadingWords {
		return true
	}
	if len([]rune(block.Text)) > c.config.MaxHeadingRunes {
		return true
	}
	if strings.Count(block.Text, ".") > 3 {
		return true
	}
	lower := strings.ToLower(block.Text)
	for _, prefix := range []string{"the ", "this ", "these ", "those ", "a ", "an "} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// assignLevels clusters accepted candidates' font sizes into up to six
// statistically distinct bands and maps bands to heading levels, largest
// first. Explicit numbering depth overrides the size-derived level, and the
// override is flagged on the candidate.
func (c *Classifier) assignLevels(candidates []Candidate, accepted []int, profile FontProfile) {
	if len(accepted) == 0 {
		return
	}

	bands := clusterSizeBands(candidates, accepted, profile.StddevSize)

	maxSize := bands[0].size

	for n, i := range accepted {
		cand := &candidates[i]
		sizeLevel := bandLevel(bands, cand.Block.FontSize, profile)

		// Document title: the very first accepted candidate, at the
		// start of the document, whose size tops every band and
		// exceeds body text. Explicitly numbered blocks are section
		// headings, never the title.
		if n == 0 &&
			cand.Block.Page <= c.config.TitlePageLimit &&
			cand.Block.FontSize >= maxSize &&
			cand.Block.FontSize > profile.BodySize &&
			numberingDepth(cand.Block.Text) == 0 {
			cand.Level = LevelTitle
			continue
		}

		cand.Level = sizeLevel

		// Pattern evidence is stronger than font evidence: explicit
		// numbering depth wins over size clustering.
		if cand.Signals.Pattern >= 1.0 {
			if depth := numberingDepth(cand.Block.Text); depth > 0 {
				patternLevel := HeadingLevel(depth)
				if patternLevel != sizeLevel {
					cand.Level = patternLevel
					cand.LevelOverride = true
				}
			}
		}
	}
}

// sizeBand is one statistically-distinct font-size cluster among accepted
// candidates.
type sizeBand struct {
	size  float64 // representative (largest) size in the band
	level Level
}

// clusterSizeBands groups accepted candidates' font sizes into bands using
// the profile stddev as the separation tolerance, descending by size.
func clusterSizeBands(candidates []Candidate, accepted []int, tolerance float64) []sizeBand {
	if tolerance < sizeBucketTolerance {
		tolerance = sizeBucketTolerance
	}

	sizes := make([]float64, 0, len(accepted))
	for _, i := range accepted {
		sizes = append(sizes, candidates[i].Block.FontSize)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	var bands []sizeBand
	for _, s := range sizes {
		if len(bands) == 0 || bands[len(bands)-1].size-s > tolerance {
			level := HeadingLevel(len(bands) + 1)
			bands = append(bands, sizeBand{size: s, level: level})
		}
	}
	return bands
}

// bandLevel maps a font size to its band's heading level. Sizes at or below
// body text fall to the deepest band.
func bandLevel(bands []sizeBand, size float64, profile FontProfile) Level {
	tolerance := profile.StddevSize
	if tolerance < sizeBucketTolerance {
		tolerance = sizeBucketTolerance
	}

	for _, band := range bands {
		if band.size-size <= tolerance {
			return band.level
		}
	}
	return bands[len(bands)-1].level
}

// numberingDepth returns the hierarchy depth implied by a decimal numbering
// prefix ("1." = 1, "1.2" = 2, "1.2.3" = 3) or a structural keyword
// ("Chapter 4" = 1). Lettered and Roman prefixes carry no unambiguous depth
// and return 0.
func numberingDepth(text string) int {
	text = strings.TrimSpace(text)

	if keywordPattern.MatchString(text) {
		return 1
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	prefix := strings.TrimSuffix(fields[0], ".")
	segments := strings.Split(prefix, ".")
	for _, seg := range segments {
		if seg == "" {
			return 0
		}
		for _, r := range seg {
			if r < '0' || r > '9' {
				return 0
			}
		}
	}
	return len(segments)
}
