package outline

import (
	"strings"

	"github.com/tsawler/lectio/model"
)

// Section is one document section: an outline entry plus the body text
// between it and the next boundary. Sections live for the duration of
// ranking.
type Section struct {
	// DocumentID identifies the owning document
	DocumentID string

	// Title is the section heading text
	Title string

	// Level is the heading level of the section's entry
	Level int

	// Page is the 1-based page the section starts on
	Page int

	// Body is the concatenated text between this entry and the next
	// boundary
	Body string

	// WordCount is the number of words in the body
	WordCount int
}

// SliceSections slices the document's text at outline boundaries. A
// section's body runs from its entry to the next entry at the same or a
// shallower level; heading blocks belonging to any outline entry are
// excluded from body text. Sections whose body would be empty are omitted.
func SliceSections(doc *model.Document, ol *Outline) []Section {
	if len(ol.Entries) == 0 {
		return nil
	}

	// Block indices that are outline headings themselves.
	headingBlocks := make(map[int]bool)
	for _, e := range ol.Entries {
		if e.blockIndex >= 0 {
			headingBlocks[e.blockIndex] = true
		}
	}

	var sections []Section
	for i, entry := range ol.Entries {
		start := entry.blockIndex
		if start < 0 {
			start = firstBlockOnPage(doc, entry.Page) - 1
		}

		end := len(doc.Blocks)
		depth := entry.Level.Depth()
		for j := i + 1; j < len(ol.Entries); j++ {
			next := ol.Entries[j]
			if next.Level.Depth() > depth {
				continue
			}
			if next.blockIndex >= 0 {
				end = next.blockIndex
			} else {
				end = firstBlockOnPage(doc, next.Page)
			}
			break
		}

		var body strings.Builder
		for k := start + 1; k < end; k++ {
			if headingBlocks[k] {
				continue
			}
			b := doc.Blocks[k]
			if b.IsEmpty() {
				continue
			}
			if body.Len() > 0 {
				body.WriteByte('\n')
			}
			body.WriteString(b.Text)
		}

		text := strings.TrimSpace(body.String())
		if text == "" {
			continue
		}

		sections = append(sections, Section{
			DocumentID: entry.DocumentID,
			Title:      entry.Text,
			Level:      depth,
			Page:       entry.Page,
			Body:       text,
			WordCount:  len(strings.Fields(text)),
		})
	}

	return sections
}

// firstBlockOnPage returns the index of the first block on the given page,
// or len(blocks) when the page has none.
func firstBlockOnPage(doc *model.Document, page int) int {
	for i, b := range doc.Blocks {
		if b.Page == page {
			return i
		}
	}
	return len(doc.Blocks)
}
