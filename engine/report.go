package engine

import "time"

// ItemError records a failure on one item (document, section) of a
// collection run.
type ItemError struct {
	// Item identifies what failed (document ID, section title)
	Item string

	// Reason is the failure description
	Reason string
}

// Report aggregates what happened during one collection run. It is always
// populated, including on partial failure, so callers can see exactly which
// items were excluded and why.
type Report struct {
	// DocumentsProcessed is the number of documents extracted successfully
	DocumentsProcessed int

	// DocumentsFailed is the number of documents excluded by extraction
	// or structural failure
	DocumentsFailed int

	// SectionsExtracted is the total sections sliced across all documents
	SectionsExtracted int

	// SectionsRanked is the number of sections that received a rank
	SectionsRanked int

	// SectionsExcluded is the number of sections excluded from ranking
	// (embedding failures)
	SectionsExcluded int

	// RefinementsDegraded is the number of refined sections that fell
	// back to extractive text
	RefinementsDegraded int

	// DegenerateDocuments lists documents whose heading classification
	// fell back to the structural minimal outline
	DegenerateDocuments []string

	// Errors carries per-item failure reasons
	Errors []ItemError

	// Duration is the wall-clock time of the run
	Duration time.Duration
}

// HasFailures reports whether any item failed during the run.
func (r *Report) HasFailures() bool {
	return r.DocumentsFailed > 0 || r.SectionsExcluded > 0 || len(r.Errors) > 0
}

func (r *Report) addError(item, reason string) {
	r.Errors = append(r.Errors, ItemError{Item: item, Reason: reason})
}
