package outline

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize produces the canonical comparison form of heading text: NFKC
// normalization, lowercasing, punctuation stripped from word edges, and
// whitespace collapsed. Used for duplicate detection and for matching
// outline entries back to their source blocks.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})

	var words []string
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			words = append(words, f)
		}
	}
	return strings.Join(words, " ")
}
