package model

import "strings"

// TOCEntry is one entry from a document's native table of contents, when the
// source format exposes one (PDF bookmarks, HTML/EPUB navigation).
type TOCEntry struct {
	// Level is the nesting depth (1 = top level)
	Level int

	// Title is the entry text
	Title string

	// Page is the 1-based target page number
	Page int
}

// Document represents one extracted source file: its ordered text blocks,
// page count, and any native table of contents.
type Document struct {
	// ID identifies the document within a collection (usually the filename)
	ID string

	// Path is the source file path
	Path string

	// PageCount is the number of pages in the source
	PageCount int

	// Blocks are the extracted text blocks in reading order
	Blocks []TextBlock

	// TOC holds native table-of-contents entries, if any
	TOC []TOCEntry
}

// NewDocument creates an empty document with the given identity
func NewDocument(id, path string) *Document {
	return &Document{
		ID:   id,
		Path: path,
	}
}

// AddBlock appends a block, growing the page count if the block's page is
// beyond the current count
func (d *Document) AddBlock(block TextBlock) {
	d.Blocks = append(d.Blocks, block)
	if block.Page > d.PageCount {
		d.PageCount = block.Page
	}
}

// BlocksOnPage returns the blocks on a specific page (1-based)
func (d *Document) BlocksOnPage(page int) []TextBlock {
	var result []TextBlock
	for _, b := range d.Blocks {
		if b.Page == page {
			result = append(result, b)
		}
	}
	return result
}

// HasTOC returns true if the source exposed at least one native
// table-of-contents entry
func (d *Document) HasTOC() bool {
	return len(d.TOC) > 0
}

// IsEmpty returns true if the document has no non-empty blocks
func (d *Document) IsEmpty() bool {
	for _, b := range d.Blocks {
		if !b.IsEmpty() {
			return false
		}
	}
	return true
}

// Text returns all block text joined by newlines
func (d *Document) Text() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Text)
	}
	return sb.String()
}
