// Package outline resolves classified heading candidates into a clean,
// ordered document outline and slices section bodies at outline boundaries.
//
// # Building
//
// The [Builder] consumes the classifier's output for one document:
//
//	builder := outline.NewBuilder()
//	ol := builder.Build(doc, result)
//
// When the source format exposes a native table of contents with at least
// one entry, it is the primary source of truth for titles, levels, and
// pages; fuzzy-classified candidates only fill page ranges the table of
// contents does not cover. Without a native table of contents the
// candidates stand alone.
//
// Duplicate candidates from multi-pass extraction are merged (highest score
// wins), and the final outline is monotonic in page number: a candidate
// that would move backward is dropped and recorded as a conflict, never
// silently reordered.
//
// # Sections
//
// [SliceSections] turns an outline into sections: the body of a section is
// the text between its entry and the next entry at the same or a shallower
// level.
package outline
