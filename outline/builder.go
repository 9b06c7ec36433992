package outline

import (
	"github.com/tsawler/lectio/classify"
	"github.com/tsawler/lectio/model"
)

// Entry is one finalized outline entry. Entries are immutable once the
// builder finalizes a document's outline.
type Entry struct {
	// Level is the hierarchy level (title or H1-H6)
	Level classify.Level

	// Text is the heading text
	Text string

	// Page is the 1-based page the heading appears on
	Page int

	// DocumentID identifies the owning document
	DocumentID string

	// blockIndex locates the heading block inside the document's block
	// slice, or -1 when the entry came from a native table of contents
	// with no matching block
	blockIndex int
}

// Conflict records a candidate that was dropped because keeping it would
// have broken page monotonicity.
type Conflict struct {
	// Text is the dropped heading text
	Text string

	// Page is the page the candidate claimed
	Page int

	// PrevPage is the page of the entry it conflicted with
	PrevPage int
}

// Adjustment records a level change the builder or classifier made that a
// reader of the outline should know about, such as explicit numbering
// overriding font-size clustering or a depth jump past intermediate levels.
type Adjustment struct {
	// Text is the affected heading text
	Text string

	// Page is the heading's page
	Page int

	// Level is the level the heading ended up with
	Level classify.Level

	// Reason describes the adjustment
	Reason string
}

// Source identifies where an outline's entries came from.
type Source int

const (
	// SourceClassifier means entries came from fuzzy classification
	SourceClassifier Source = iota
	// SourceTOC means a native table of contents was the primary source
	SourceTOC
)

// Outline is the finalized ordered outline for one document.
type Outline struct {
	// DocumentID identifies the document
	DocumentID string

	// Title is the document title, when one was detected
	Title string

	// Entries are the outline entries in page order
	Entries []Entry

	// Source identifies the primary evidence the outline was built from
	Source Source

	// Conflicts are candidates dropped to preserve page monotonicity
	Conflicts []Conflict

	// Adjustments are recorded level changes
	Adjustments []Adjustment

	// Degenerate is true when the classifier fell back to structural
	// evidence only
	Degenerate bool
}

// Builder resolves competing heading candidates and native table-of-contents
// data into a clean ordered outline.
type Builder struct{}

// NewBuilder creates an outline builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build produces the outline for one document from its classification
// result and any native table of contents.
func (b *Builder) Build(doc *model.Document, result *classify.Result) *Outline {
	ol := &Outline{
		DocumentID: doc.ID,
		Degenerate: result.Degenerate,
	}

	candidates := dedupeCandidates(result.Accepted())

	if doc.HasTOC() {
		ol.Source = SourceTOC
		b.buildFromTOC(doc, candidates, ol)
	} else {
		ol.Source = SourceClassifier
		b.buildFromCandidates(doc, candidates, ol)
	}

	b.enforceMonotonicPages(ol)
	b.recordDepthJumps(ol)

	return ol
}

// buildFromCandidates assembles entries purely from classified candidates.
func (b *Builder) buildFromCandidates(doc *model.Document, candidates []classify.Candidate, ol *Outline) {
	for _, cand := range candidates {
		if cand.Level == classify.LevelTitle && ol.Title == "" {
			ol.Title = cand.Block.Text
		}
		if cand.LevelOverride {
			ol.Adjustments = append(ol.Adjustments, Adjustment{
				Text:   cand.Block.Text,
				Page:   cand.Block.Page,
				Level:  cand.Level,
				Reason: "explicit numbering depth overrode font-size clustering",
			})
		}
		ol.Entries = append(ol.Entries, Entry{
			Level:      cand.Level,
			Text:       cand.Block.Text,
			Page:       cand.Block.Page,
			DocumentID: doc.ID,
			blockIndex: findBlock(doc, cand.Block),
		})
	}
}

// buildFromTOC uses the native table of contents as the primary source of
// truth, with classified candidates filling only the page ranges the table
// of contents does not cover.
func (b *Builder) buildFromTOC(doc *model.Document, candidates []classify.Candidate, ol *Outline) {
	minPage, maxPage := doc.TOC[0].Page, doc.TOC[0].Page
	for _, t := range doc.TOC {
		if t.Page < minPage {
			minPage = t.Page
		}
		if t.Page > maxPage {
			maxPage = t.Page
		}
	}

	// Gap-filling candidates before the covered range.
	for _, cand := range candidates {
		if cand.Block.Page >= minPage {
			continue
		}
		if cand.Level == classify.LevelTitle && ol.Title == "" {
			ol.Title = cand.Block.Text
		}
		ol.Entries = append(ol.Entries, Entry{
			Level:      cand.Level,
			Text:       cand.Block.Text,
			Page:       cand.Block.Page,
			DocumentID: doc.ID,
			blockIndex: findBlock(doc, cand.Block),
		})
	}

	for _, t := range doc.TOC {
		ol.Entries = append(ol.Entries, Entry{
			Level:      classify.HeadingLevel(t.Level),
			Text:       t.Title,
			Page:       t.Page,
			DocumentID: doc.ID,
			blockIndex: findBlockByText(doc, t.Page, t.Title),
		})
	}

	// Gap-filling candidates after the covered range.
	for _, cand := range candidates {
		if cand.Block.Page <= maxPage {
			continue
		}
		ol.Entries = append(ol.Entries, Entry{
			Level:      cand.Level,
			Text:       cand.Block.Text,
			Page:       cand.Block.Page,
			DocumentID: doc.ID,
			blockIndex: findBlock(doc, cand.Block),
		})
	}

	if ol.Title == "" && len(doc.TOC) > 0 {
		// Without a detected title block, a level-0 bookmark or the
		// first top-level entry names the document.
		for _, t := range doc.TOC {
			if t.Level <= 1 {
				ol.Title = t.Title
				break
			}
		}
	}
}

// enforceMonotonicPages drops entries whose page number moves backward,
// recording each as a conflict. Entries are never reordered.
func (b *Builder) enforceMonotonicPages(ol *Outline) {
	if len(ol.Entries) == 0 {
		return
	}

	kept := ol.Entries[:0]
	lastPage := 0
	for _, e := range ol.Entries {
		if e.Page < lastPage {
			ol.Conflicts = append(ol.Conflicts, Conflict{
				Text:     e.Text,
				Page:     e.Page,
				PrevPage: lastPage,
			})
			continue
		}
		lastPage = e.Page
		kept = append(kept, e)
	}
	ol.Entries = kept
}

// recordDepthJumps records entries that appear deeper than one level below
// anything seen before them. The entry keeps its level, since the document
// may genuinely start at depth 3, but the jump is never silent.
func (b *Builder) recordDepthJumps(ol *Outline) {
	seenDepth := 0
	for _, e := range ol.Entries {
		d := e.Level.Depth()
		if d <= 0 {
			continue
		}
		if d > seenDepth+1 {
			ol.Adjustments = append(ol.Adjustments, Adjustment{
				Text:   e.Text,
				Page:   e.Page,
				Level:  e.Level,
				Reason: "depth jump past unseen shallower levels",
			})
		}
		if d > seenDepth {
			seenDepth = d
		}
	}
}

// dedupeCandidates merges consecutive candidates with near-identical text
// on the same page, keeping the highest-scoring instance. Multi-pass
// extraction commonly emits such duplicates.
func dedupeCandidates(candidates []classify.Candidate) []classify.Candidate {
	var out []classify.Candidate
	for _, cand := range candidates {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			if prev.Block.Page == cand.Block.Page &&
				Normalize(prev.Block.Text) == Normalize(cand.Block.Text) {
				if cand.Score > prev.Score {
					*prev = cand
				}
				continue
			}
		}
		out = append(out, cand)
	}
	return out
}

// findBlock locates a block in the document by page and text identity.
func findBlock(doc *model.Document, block model.TextBlock) int {
	for i, b := range doc.Blocks {
		if b.Page == block.Page && b.Text == block.Text {
			return i
		}
	}
	return -1
}

// findBlockByText locates the block matching a table-of-contents title on
// the given page, falling back to the first block of that page so section
// boundaries stay usable even when bookmark text differs from the page
// text.
func findBlockByText(doc *model.Document, page int, title string) int {
	want := Normalize(title)
	firstOnPage := -1
	for i, b := range doc.Blocks {
		if b.Page != page {
			continue
		}
		if firstOnPage < 0 {
			firstOnPage = i
		}
		if Normalize(b.Text) == want {
			return i
		}
	}
	return firstOnPage
}
