package stemmer

// HasVowel reports whether segment contains a true vowel (a, e, i, o, u).
// Unlike Pattern, a 'y' never counts.
func HasVowel(segment string) bool {
	for _, c := range segment {
		if IsVowel(c) {
			return true
		}
	}
	return false
}

// EndsDoubleConsonant reports whether segment ends in two identical consonants
// (e.g. "tt", "ss").
func EndsDoubleConsonant(segment string) bool {
	runes := []rune(segment)
	n := len(runes)
	if n < 2 {
		return false
	}
	return runes[n-1] == runes[n-2] && IsConsonant(runes[n-1])
}

// EndsCVC reports whether segment ends consonant-vowel-consonant where the
// final consonant is not w, x or y (e.g. "hop", but not "snow" or "box").
func EndsCVC(segment string) bool {
	runes := []rune(segment)
	n := len(runes)
	if n < 3 {
		return false
	}

	last := runes[n-1]
	if last == 'w' || last == 'x' || last == 'y' {
		return false
	}

	return IsConsonant(runes[n-3]) && IsVowel(runes[n-2]) && IsConsonant(last)
}
