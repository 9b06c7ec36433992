package classify

import "regexp"

// Weights holds the fixed blend weights for the seven membership signals.
// They must sum to 1.0 so the composite score stays in [0,1].
type Weights struct {
	// FontSize weights the Gaussian font-size ratio membership
	// Default: 0.25
	FontSize float64 `yaml:"font_size"`

	// Length weights the trapezoidal word-count membership
	// Default: 0.20
	Length float64 `yaml:"length"`

	// Pattern weights the structural numbering/keyword membership
	// Default: 0.25
	Pattern float64 `yaml:"pattern"`

	// Semantic weights the section-archetype vocabulary membership
	// Default: 0.15
	Semantic float64 `yaml:"semantic"`

	// Typography weights the bold/italic/caps membership
	// Default: 0.10
	Typography float64 `yaml:"typography"`

	// Position weights the page-start membership
	// Default: 0.05
	Position float64 `yaml:"position"`

	// Whitespace weights the vertical-isolation membership
	// Default: 0.10
	Whitespace float64 `yaml:"whitespace"`
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.FontSize + w.Length + w.Pattern + w.Semantic +
		w.Typography + w.Position + w.Whitespace
}

// Config holds configuration for the fuzzy heading classifier. Every
// threshold that shapes a membership function is a named field rather than a
// scattered literal so individual signals stay tunable and testable.
type Config struct {
	// SignalWeights are the blend weights for the seven signals
	SignalWeights Weights

	// SizeRatioPeak is the font-size ratio at which the Gaussian
	// membership reaches 1.0; larger ratios stay at 1.0
	// Default: 1.4
	SizeRatioPeak float64

	// SizeRatioSpread is the Gaussian spread below the peak
	// Default: 0.25
	SizeRatioSpread float64

	// LengthPlateauMin and LengthPlateauMax bound the ideal heading
	// word-count band
	// Defaults: 1 and 12
	LengthPlateauMin int
	LengthPlateauMax int

	// LengthZero is the word count at which the length membership tapers
	// to zero
	// Default: 25
	LengthZero int

	// KeywordPatternScore is the partial credit for keyword-only
	// structural matches ("Chapter", "Appendix" without numbering)
	// Default: 0.7
	KeywordPatternScore float64

	// FuzzyVocabularyScore is the partial credit for substring matches
	// against the section-archetype vocabulary
	// Default: 0.6
	FuzzyVocabularyScore float64

	// ThresholdFloor and ThresholdCeiling clamp the document-adaptive
	// acceptance threshold (the upper quartile of the block score
	// distribution). The floor keeps noise out of sparse documents; the
	// ceiling keeps uniformly high-scoring documents from producing a
	// near-empty outline.
	// Defaults: 0.40 and 0.65
	ThresholdFloor   float64
	ThresholdCeiling float64

	// MaxHeadingWords prefilters blocks too long to be headings
	// Default: 25
	MaxHeadingWords int

	// MaxHeadingRunes prefilters blocks too large to be headings
	// Default: 300
	MaxHeadingRunes int

	// TitlePageLimit is the last page on which a block can still be
	// classified as the document title
	// Default: 1
	TitlePageLimit int
}

// numberedPattern matches fully structural heading prefixes: decimal
// numbering ("1.", "1.1", "1.1.1"), single letters ("A.") and Roman
// numerals ("IV.").
var numberedPattern = regexp.MustCompile(`^(\d+(\.\d+)*\.?|[A-Z]\.|[IVXLCDM]+\.)\s+\S`)

// keywordPattern matches keyword-style heading prefixes.
var keywordPattern = regexp.MustCompile(`^(?i)(chapter|section|part|appendix)\b`)

// sectionArchetypes is the closed vocabulary of section-name archetypes used
// by the semantic indicator signal.
var sectionArchetypes = []string{
	"abstract",
	"introduction",
	"background",
	"overview",
	"executive summary",
	"summary",
	"methodology",
	"methods",
	"results",
	"discussion",
	"conclusion",
	"conclusions",
	"recommendations",
	"references",
	"bibliography",
	"acknowledgements",
	"acknowledgments",
	"appendix",
	"glossary",
	"table of contents",
}

// DefaultConfig returns the classifier configuration with the standard
// signal weights and thresholds.
func DefaultConfig() Config {
	return Config{
		SignalWeights: Weights{
			FontSize:   0.25,
			Length:     0.20,
			Pattern:    0.25,
			Semantic:   0.15,
			Typography: 0.10,
			Position:   0.05,
			Whitespace: 0.10,
		},
		SizeRatioPeak:        1.4,
		SizeRatioSpread:      0.25,
		LengthPlateauMin:     1,
		LengthPlateauMax:     12,
		LengthZero:           25,
		KeywordPatternScore:  0.7,
		FuzzyVocabularyScore: 0.6,
		ThresholdFloor:       0.40,
		ThresholdCeiling:     0.65,
		MaxHeadingWords:      25,
		MaxHeadingRunes:      300,
		TitlePageLimit:       1,
	}
}
