// Package model defines the core data types shared across the lectio
// pipeline: text blocks with layout metadata, bounding boxes, native
// table-of-contents entries, and the extracted document container.
//
// # Text Blocks
//
// A [TextBlock] is one visually-distinct run of text on a page, carrying the
// typography and position metadata the classifier needs:
//
//	block := model.TextBlock{
//	    Text:     "1. Introduction",
//	    Page:     1,
//	    FontSize: 16,
//	    Bold:     true,
//	}
//
// Blocks are created once during extraction and treated as immutable
// afterward.
//
// # Documents
//
// A [Document] owns the ordered blocks for one source file, plus the page
// count and any native table of contents the source format exposed:
//
//	doc := model.NewDocument("report.pdf", "reports/report.pdf")
//	doc.AddBlock(block)
package model
