package stemmer

import "unicode"

// IsVowel reports whether c is one of a, e, i, o, u (case-insensitive).
// The letter y is never a vowel here; its positional promotion happens in Pattern.
func IsVowel(c rune) bool {
	switch unicode.ToLower(c) {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// IsConsonant is the negation of IsVowel. Digits, punctuation and any other
// non-vowel rune count as consonants.
func IsConsonant(c rune) bool {
	return !IsVowel(c)
}
