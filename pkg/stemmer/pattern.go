package stemmer

import (
	"strings"
	"unicode"
)

// Pattern derives the vowel/consonant signature of a segment, one 'V' or 'C'
// per character. A 'y' is a vowel only when the character before it is a
// consonant, so a leading 'y' is always a consonant.
func Pattern(segment string) string {
	runes := []rune(segment)

	var b strings.Builder
	b.Grow(len(runes))

	for i, c := range runes {
		switch {
		case IsVowel(c):
			b.WriteByte('V')
		case unicode.ToLower(c) == 'y':
			if i > 0 && IsConsonant(runes[i-1]) {
				b.WriteByte('V')
			} else {
				b.WriteByte('C')
			}
		default:
			b.WriteByte('C')
		}
	}

	return b.String()
}

// Measure returns m, the number of non-overlapping "VC" occurrences in the
// pattern of segment, scanning left to right.
func Measure(segment string) int {
	return strings.Count(Pattern(segment), "VC")
}
