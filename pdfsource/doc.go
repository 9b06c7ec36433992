// Package pdfsource implements the PDF text-extraction collaborator on top
// of pdfcpu. It parses page content streams into position- and size-aware
// text blocks, preserves reading order within and across pages, and exposes
// native PDF bookmarks as table-of-contents entries.
//
//	extractor := pdfsource.New()
//	doc, err := extractor.Extract("report.pdf")
//
// Unreadable, corrupt, or encrypted files produce an explicit error, never
// an empty document. Extraction is text-layer only: scanned, image-only
// pages yield no blocks.
package pdfsource
