package classify

import (
	"fmt"
	"testing"

	"github.com/tsawler/lectio/model"
)

// heading builds a heading-shaped block: bold, isolated, title-cased.
func heading(text string, size float64, page int) model.TextBlock {
	return model.TextBlock{
		Text:     text,
		Page:     page,
		FontSize: size,
		Bold:     true,
		Case:     model.DetectCase(text),
		GapAbove: 3,
		GapBelow: 2,
	}
}

// prose builds a body-shaped block.
func prose(text string, size float64, page int) model.TextBlock {
	return model.TextBlock{
		Text:     text,
		Page:     page,
		FontSize: size,
		Case:     model.DetectCase(text),
		GapAbove: 1,
		GapBelow: 1,
	}
}

func bodyText(i int) string {
	return fmt.Sprintf("Plain paragraph number %d continues the narrative with several more words of ordinary prose.", i)
}

func buildDocument(blocks ...model.TextBlock) *model.Document {
	doc := model.NewDocument("test.pdf", "test.pdf")
	maxPage := 1
	for _, b := range blocks {
		doc.AddBlock(b)
		if b.Page > maxPage {
			maxPage = b.Page
		}
	}
	doc.PageCount = maxPage
	return doc
}

func TestScoreBounds(t *testing.T) {
	c := NewClassifier()

	blocks := []model.TextBlock{
		heading("1. Introduction", 48, 1),
		prose("", 0, 1),
		prose("x", 0.1, 1),
		heading("CHAPTER ONE", 96, 1),
		prose(bodyText(1), 10, 1),
		{Text: "extreme gaps", Page: 1, FontSize: 10, GapAbove: 100, GapBelow: 100},
	}

	profiles := []FontProfile{
		CollectProfile(blocks),
		CollectProfile(nil), // degenerate
		{BodySize: 0, StddevSize: 0, Percentiles: map[int]float64{}},
	}

	for _, profile := range profiles {
		for _, b := range blocks {
			for _, first := range []bool{true, false} {
				cand := c.Score(b, BlockContext{FirstOnPage: first}, profile)
				if cand.Score < 0 || cand.Score > 1 {
					t.Errorf("score out of [0,1]: %f for %q (profile %+v)", cand.Score, b.Text, profile)
				}
			}
		}
	}
}

func TestBigNumberedBlockExceedsThreshold(t *testing.T) {
	blocks := []model.TextBlock{heading("1. Introduction", 16, 1)}
	for i := 0; i < 20; i++ {
		blocks = append(blocks, prose(bodyText(i), 10, 1))
	}
	doc := buildDocument(blocks...)
	profile := CollectProfile(doc.Blocks)

	c := NewClassifier()
	result := c.ClassifyDocument(doc, profile)

	headingCand := result.Candidates[0]
	if headingCand.Score <= result.Threshold {
		t.Errorf("big numbered block score %f should exceed threshold %f",
			headingCand.Score, result.Threshold)
	}
	if !headingCand.IsHeading() {
		t.Error("big numbered block not accepted as heading")
	}
	if result.Degenerate {
		t.Error("unexpected degenerate classification")
	}
}

func TestNumberedHierarchy(t *testing.T) {
	// "1.1 Background" sits between two top-level numbered headings; its
	// numbering depth places it at H2 regardless of size clustering.
	blocks := []model.TextBlock{
		heading("1. Introduction", 16, 1),
	}
	for i := 0; i < 10; i++ {
		blocks = append(blocks, prose(bodyText(i), 10, 1))
	}
	blocks = append(blocks, heading("1.1 Background", 14, 1))
	for i := 10; i < 20; i++ {
		blocks = append(blocks, prose(bodyText(i), 10, 1))
	}
	blocks = append(blocks, heading("2. Methodology", 16, 2))
	for i := 20; i < 30; i++ {
		blocks = append(blocks, prose(bodyText(i), 10, 2))
	}

	doc := buildDocument(blocks...)
	profile := CollectProfile(doc.Blocks)

	c := NewClassifier()
	result := c.ClassifyDocument(doc, profile)

	accepted := result.Accepted()
	if len(accepted) != 3 {
		for _, a := range accepted {
			t.Logf("accepted: %q level=%s score=%f", a.Block.Text, a.Level, a.Score)
		}
		t.Fatalf("expected 3 accepted headings, got %d", len(accepted))
	}

	want := []struct {
		text  string
		level Level
	}{
		{"1. Introduction", LevelH1},
		{"1.1 Background", LevelH2},
		{"2. Methodology", LevelH1},
	}
	for i, w := range want {
		if accepted[i].Block.Text != w.text {
			t.Errorf("position %d: expected %q, got %q", i, w.text, accepted[i].Block.Text)
		}
		if accepted[i].Level != w.level {
			t.Errorf("%q: expected level %s, got %s", w.text, w.level, accepted[i].Level)
		}
	}
}

func TestTitleDetection(t *testing.T) {
	blocks := []model.TextBlock{
		heading("Annual Market Review", 24, 1),
		heading("Introduction", 16, 1),
	}
	for i := 0; i < 15; i++ {
		blocks = append(blocks, prose(bodyText(i), 10, 1))
	}

	doc := buildDocument(blocks...)
	c := NewClassifier()
	result := c.ClassifyDocument(doc, CollectProfile(doc.Blocks))

	accepted := result.Accepted()
	if len(accepted) < 2 {
		t.Fatalf("expected title and heading accepted, got %d", len(accepted))
	}
	if accepted[0].Level != LevelTitle {
		t.Errorf("expected largest first block classified as title, got %s", accepted[0].Level)
	}
	if accepted[1].Level == LevelTitle {
		t.Error("only one block may be the title")
	}
}

func TestNumberedBlockNeverTitle(t *testing.T) {
	blocks := []model.TextBlock{heading("1. Introduction", 24, 1)}
	for i := 0; i < 15; i++ {
		blocks = append(blocks, prose(bodyText(i), 10, 1))
	}

	doc := buildDocument(blocks...)
	c := NewClassifier()
	result := c.ClassifyDocument(doc, CollectProfile(doc.Blocks))

	accepted := result.Accepted()
	if len(accepted) == 0 {
		t.Fatal("expected the heading accepted")
	}
	if accepted[0].Level == LevelTitle {
		t.Error("a numbered block must never be the document title")
	}
}

func TestStructuralFallback(t *testing.T) {
	// A single-block document ties with its own threshold, so nothing
	// exceeds it; the archetype title must still be recovered.
	doc := buildDocument(prose("Introduction", 12, 1))
	c := NewClassifier()
	result := c.ClassifyDocument(doc, CollectProfile(doc.Blocks))

	if !result.Degenerate {
		t.Fatal("expected degenerate classification")
	}
	accepted := result.Accepted()
	if len(accepted) != 1 {
		t.Fatalf("expected structural fallback to accept the archetype block, got %d", len(accepted))
	}
}

func TestUniformProsePromotesOneHeading(t *testing.T) {
	// Uniform font sizes with no numbering or archetype evidence leave
	// both the fuzzy blend and the structural fallback empty-handed; a
	// document with text must still yield one heading candidate.
	var blocks []model.TextBlock
	for i := 0; i < 6; i++ {
		blocks = append(blocks, prose(bodyText(i), 11, 1))
	}
	doc := buildDocument(blocks...)
	c := NewClassifier()
	result := c.ClassifyDocument(doc, CollectProfile(doc.Blocks))

	if !result.Degenerate {
		t.Fatal("expected degenerate classification")
	}
	accepted := result.Accepted()
	if len(accepted) != 1 {
		t.Fatalf("expected exactly one promoted heading, got %d", len(accepted))
	}
	if accepted[0].Block.Text != bodyText(0) {
		t.Errorf("expected the first block promoted on a size tie, got %q", accepted[0].Block.Text)
	}
	if accepted[0].Level == LevelBody || accepted[0].Level == LevelTitle {
		t.Errorf("promoted block at body size must be a heading, not %v", accepted[0].Level)
	}
}

func TestLastResortPrefersLargestFont(t *testing.T) {
	doc := buildDocument(
		prose(bodyText(1), 11, 1),
		prose(bodyText(2), 13, 1),
		prose(bodyText(3), 11, 2),
	)
	c := NewClassifier()
	result := c.ClassifyDocument(doc, CollectProfile(doc.Blocks))

	accepted := result.Accepted()
	if len(accepted) != 1 {
		t.Fatalf("expected one promoted heading, got %d", len(accepted))
	}
	if accepted[0].Block.FontSize != 13 {
		t.Errorf("expected the largest-font block promoted, got size %.0f", accepted[0].Block.FontSize)
	}
}

func TestEmptyDocumentNotDegenerate(t *testing.T) {
	doc := model.NewDocument("empty.pdf", "empty.pdf")
	c := NewClassifier()
	result := c.ClassifyDocument(doc, CollectProfile(nil))

	if result.Degenerate {
		t.Error("empty document must not trigger the fallback")
	}
	if len(result.Accepted()) != 0 {
		t.Error("empty document must yield no headings")
	}
}

func TestObviousNonHeadingPrefilter(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"short heading", "Conclusions", false},
		{"sentence start", "The results were inconclusive", true},
		{"many sentences", "First. Second. Third. Fourth. Fifth.", true},
		{"too many words", bodyText(1) + " " + bodyText(2), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := model.TextBlock{Text: tt.text, Page: 1, FontSize: 12}
			if got := c.obviousNonHeading(b); got != tt.want {
				t.Errorf("obviousNonHeading(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAdaptiveThresholdClamped(t *testing.T) {
	c := NewClassifier()

	var low []Candidate
	for i := 0; i < 20; i++ {
		low = append(low, Candidate{Score: 0.1})
	}
	if got := c.adaptiveThreshold(low); got != c.config.ThresholdFloor {
		t.Errorf("expected floor %f for low scores, got %f", c.config.ThresholdFloor, got)
	}

	var high []Candidate
	for i := 0; i < 20; i++ {
		high = append(high, Candidate{Score: 0.9})
	}
	if got := c.adaptiveThreshold(high); got != c.config.ThresholdCeiling {
		t.Errorf("expected ceiling %f for high scores, got %f", c.config.ThresholdCeiling, got)
	}

	if got := c.adaptiveThreshold(nil); got != c.config.ThresholdFloor {
		t.Errorf("expected floor for empty input, got %f", got)
	}
}

func TestNumberingDepth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1. Introduction", 1},
		{"1.1 Background", 2},
		{"2.3.1 Details", 3},
		{"Chapter 4: The Journey", 1},
		{"Appendix B", 1},
		{"A. Lettered", 0},
		{"IV. Roman", 0},
		{"No numbering here", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := numberingDepth(tt.text); got != tt.want {
			t.Errorf("numberingDepth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestMembershipFunctions(t *testing.T) {
	c := NewClassifier()
	profile := FontProfile{BodySize: 10, StddevSize: 1}

	t.Run("font size", func(t *testing.T) {
		atPeak := c.fontSizeMembership(block("x", 14), profile)
		if atPeak != 1.0 {
			t.Errorf("ratio at peak should score 1.0, got %f", atPeak)
		}
		above := c.fontSizeMembership(block("x", 20), profile)
		if above != 1.0 {
			t.Errorf("ratio above peak should stay 1.0, got %f", above)
		}
		body := c.fontSizeMembership(block("x", 10), profile)
		if body >= atPeak || body <= 0 {
			t.Errorf("body-sized text should score between 0 and peak, got %f", body)
		}
	})

	t.Run("length", func(t *testing.T) {
		if got := c.lengthMembership(model.TextBlock{Text: ""}); got != 0 {
			t.Errorf("empty block should score 0, got %f", got)
		}
		if got := c.lengthMembership(model.TextBlock{Text: "Five words in this heading"}); got != 1.0 {
			t.Errorf("plateau word count should score 1.0, got %f", got)
		}
		long := c.lengthMembership(prose(bodyText(1)+" "+bodyText(2), 10, 1))
		if long != 0 {
			t.Errorf("25+ words should score 0, got %f", long)
		}
	})

	t.Run("pattern", func(t *testing.T) {
		if got := c.patternMembership(block("3.2 Results Overview", 12)); got != 1.0 {
			t.Errorf("numbered prefix should score 1.0, got %f", got)
		}
		if got := c.patternMembership(block("Chapter 7", 12)); got != 1.0 {
			t.Errorf("keyword with number should score 1.0, got %f", got)
		}
		if got := c.patternMembership(block("Appendix", 12)); got != c.config.KeywordPatternScore {
			t.Errorf("bare keyword should score %f, got %f", c.config.KeywordPatternScore, got)
		}
		if got := c.patternMembership(block("Ordinary text", 12)); got != 0 {
			t.Errorf("plain text should score 0, got %f", got)
		}
	})

	t.Run("semantic", func(t *testing.T) {
		if got := c.semanticMembership(block("Methodology", 12)); got != 1.0 {
			t.Errorf("exact archetype should score 1.0, got %f", got)
		}
		if got := c.semanticMembership(block("2. Methodology", 12)); got != 1.0 {
			t.Errorf("numbered archetype should score 1.0, got %f", got)
		}
		if got := c.semanticMembership(block("Introduction to Widgets", 12)); got != c.config.FuzzyVocabularyScore {
			t.Errorf("substring archetype should earn partial credit, got %f", got)
		}
		if got := c.semanticMembership(block("Widget Sales", 12)); got != 0 {
			t.Errorf("non-archetype should score 0, got %f", got)
		}
	})

	t.Run("whitespace", func(t *testing.T) {
		tight := c.whitespaceMembership(model.TextBlock{GapAbove: 1, GapBelow: 1})
		if tight != 0 {
			t.Errorf("typical spacing should score 0, got %f", tight)
		}
		floating := c.whitespaceMembership(model.TextBlock{GapAbove: 3, GapBelow: 3})
		if floating != 1.0 {
			t.Errorf("triple spacing should score 1.0, got %f", floating)
		}
	})
}

func TestLevelDepth(t *testing.T) {
	if LevelTitle.Depth() != 0 {
		t.Error("title depth should be 0")
	}
	if LevelH3.Depth() != 3 {
		t.Error("H3 depth should be 3")
	}
	if LevelBody.Depth() != -1 {
		t.Error("body depth should be -1")
	}
	if HeadingLevel(9) != LevelH6 {
		t.Error("depth beyond 6 should cap at H6")
	}
}
