package classify

import (
	"math"
	"strings"

	"github.com/tsawler/lectio/model"
)

// fontSizeMembership is a Gaussian membership over the block's font size
// ratio to the document body size. Ratios at or above the peak score 1.0;
// below the peak the score decays toward zero, so body-sized and smaller
// text contributes little.
func (c *Classifier) fontSizeMembership(block model.TextBlock, profile FontProfile) float64 {
	if profile.BodySize <= 0 || block.FontSize <= 0 {
		return 0
	}

	ratio := block.FontSize / profile.BodySize
	if ratio >= c.config.SizeRatioPeak {
		return 1.0
	}

	d := ratio - c.config.SizeRatioPeak
	spread := c.config.SizeRatioSpread
	if spread <= 0 {
		spread = 0.25
	}
	return math.Exp(-(d * d) / (2 * spread * spread))
}

// lengthMembership is a trapezoidal membership over word count: zero for
// empty blocks, rising to a plateau across the ideal heading band, then
// tapering to zero for long paragraphs.
func (c *Classifier) lengthMembership(block model.TextBlock) float64 {
	words := block.WordCount()

	switch {
	case words == 0:
		return 0
	case words < c.config.LengthPlateauMin:
		return float64(words) / float64(c.config.LengthPlateauMin)
	case words <= c.config.LengthPlateauMax:
		return 1.0
	case words >= c.config.LengthZero:
		return 0
	default:
		span := float64(c.config.LengthZero - c.config.LengthPlateauMax)
		return float64(c.config.LengthZero-words) / span
	}
}

// patternMembership scores structural heading prefixes. Explicit numbering
// (decimal, lettered, Roman) is an exact structural match and scores 1.0;
// keyword prefixes without numbering earn partial credit.
func (c *Classifier) patternMembership(block model.TextBlock) float64 {
	text := strings.TrimSpace(block.Text)
	if text == "" {
		return 0
	}

	if numberedPattern.MatchString(text) {
		return 1.0
	}
	if keywordPattern.MatchString(text) {
		// "Chapter 3" with a number is still a full structural match
		if strings.ContainsAny(text, "0123456789") {
			return 1.0
		}
		return c.config.KeywordPatternScore
	}
	return 0
}

// semanticMembership scores the block against the closed vocabulary of
// section-name archetypes. An exact case-insensitive match scores 1.0; a
// substring match earns partial credit.
func (c *Classifier) semanticMembership(block model.TextBlock) float64 {
	text := strings.ToLower(strings.TrimSpace(block.Text))
	text = strings.TrimRight(text, ":.")
	if text == "" {
		return 0
	}

	// Strip any numbering prefix so "2. Methodology" matches "methodology"
	if loc := numberedPattern.FindStringIndex(block.Text); loc != nil {
		trimmed := strings.TrimSpace(block.Text[loc[0]:])
		if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
			text = strings.ToLower(strings.TrimSpace(trimmed[i:]))
			text = strings.TrimRight(text, ":.")
		}
	}

	best := 0.0
	for _, archetype := range sectionArchetypes {
		if text == archetype {
			return 1.0
		}
		if strings.Contains(text, archetype) && c.config.FuzzyVocabularyScore > best {
			best = c.config.FuzzyVocabularyScore
		}
	}
	return best
}

// typographyMembership scores formatting that distinguishes a block from
// surrounding body text: bold, italic, all-caps and title-case.
func (c *Classifier) typographyMembership(block model.TextBlock) float64 {
	score := 0.0
	if block.Bold {
		score += 0.4
	}
	if block.Italic {
		score += 0.15
	}
	switch block.Case {
	case model.CaseUpper:
		score += 0.3
	case model.CaseTitle:
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// positionMembership boosts blocks that open a page, where chapter and
// section starts typically land.
func (c *Classifier) positionMembership(ctx BlockContext) float64 {
	if ctx.FirstOnPage {
		return 1.0
	}
	return 0
}

// whitespaceMembership scores vertical isolation. Gaps are normalized by
// the document's typical line spacing: a block surrounded by typical
// spacing scores zero, one floating in triple spacing scores 1.0.
func (c *Classifier) whitespaceMembership(block model.TextBlock) float64 {
	gap := (block.GapAbove + block.GapBelow) / 2
	score := (gap - 1.0) / 2.0
	if score < 0 {
		return 0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
