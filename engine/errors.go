package engine

import "errors"

var (
	// ErrExtraction indicates a document could not be extracted. The
	// document is excluded from the collection; processing continues.
	ErrExtraction = errors.New("document extraction failed")

	// ErrNoDocuments indicates that no document in a collection produced
	// any usable content. This is the only collection-level failure.
	ErrNoDocuments = errors.New("no valid documents in collection")

	// ErrNoExtractor indicates no extractor is registered for a
	// document's file extension.
	ErrNoExtractor = errors.New("no extractor registered for extension")

	// ErrDegenerate indicates the classifier could not separate headings
	// from body text and fell back to a structural minimal outline. It is
	// recorded in the report, never returned as a hard failure.
	ErrDegenerate = errors.New("degenerate heading classification")

	// ErrModelClosed is returned when the shared model handle is used
	// after Close.
	ErrModelClosed = errors.New("shared model is closed")
)
