// Package engine orchestrates the full pipeline over document collections:
// extraction, heading classification, outline building, section slicing,
// relevance ranking and refinement.
//
// Documents in a collection are processed concurrently by a bounded worker
// pool. A single failed document never fails the collection; it is excluded
// and recorded in the report. Only a collection yielding zero valid documents
// is a collection-level failure.
//
// Access to the embedding/generation model is mediated by a SharedModel
// handle, which opens the underlying model lazily on first use and bounds
// concurrent calls with a configurable-width guard (width 1 for engines that
// are not safe for concurrent use).
package engine
