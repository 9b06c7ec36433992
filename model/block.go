package model

import (
	"strings"
	"unicode"
)

// CaseProfile describes the letter-case pattern of a text block
type CaseProfile int

const (
	// CaseMixed is text with no dominant case pattern
	CaseMixed CaseProfile = iota
	// CaseLower is predominantly lowercase text
	CaseLower
	// CaseTitle is Title Case text (most words capitalized)
	CaseTitle
	// CaseUpper is ALL CAPS text
	CaseUpper
)

// String returns a string representation of the case profile
func (c CaseProfile) String() string {
	switch c {
	case CaseLower:
		return "lower"
	case CaseTitle:
		return "title"
	case CaseUpper:
		return "upper"
	default:
		return "mixed"
	}
}

// TextBlock is one visually-distinct run of text on a page. Blocks are
// created once per document during extraction and are immutable afterward.
type TextBlock struct {
	// Text is the block content
	Text string

	// Page is the 1-based page number the block appears on
	Page int

	// FontSize is the dominant font size in points
	FontSize float64

	// FontName is the PDF font name (e.g., "Helvetica-Bold")
	FontName string

	// Bold indicates bold typography
	Bold bool

	// Italic indicates italic typography
	Italic bool

	// BBox is the block's bounding box on the page
	BBox BBox

	// Case is the detected letter-case profile
	Case CaseProfile

	// GapAbove is the vertical gap to the previous block, normalized by
	// the document's typical line spacing
	GapAbove float64

	// GapBelow is the vertical gap to the next block, normalized by the
	// document's typical line spacing
	GapBelow float64
}

// WordCount returns the number of whitespace-separated words in the block
func (b TextBlock) WordCount() int {
	return len(strings.Fields(b.Text))
}

// IsEmpty returns true if the block contains no non-whitespace text
func (b TextBlock) IsEmpty() bool {
	return strings.TrimSpace(b.Text) == ""
}

// DetectCase determines the case profile of a text string. Strings with
// fewer than three letters are reported as mixed since there is too little
// signal to call a pattern.
func DetectCase(text string) CaseProfile {
	upper, lower := 0, 0
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}

	letters := upper + lower
	if letters < 3 {
		return CaseMixed
	}

	if lower == 0 || float64(upper)/float64(letters) > 0.9 {
		return CaseUpper
	}
	if upper == 0 {
		return CaseLower
	}

	// Title case: most words start with an uppercase letter
	words := strings.Fields(text)
	if len(words) == 0 {
		return CaseMixed
	}
	capitalized := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			capitalized++
		}
	}
	if float64(capitalized)/float64(len(words)) >= 0.7 {
		return CaseTitle
	}

	return CaseMixed
}
