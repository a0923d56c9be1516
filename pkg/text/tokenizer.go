package text

import "strings"

// Punctuation is the ASCII punctuation set stripped before tokenizing.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// RemovePunctuation drops every ASCII punctuation character from s.
func RemovePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(Punctuation, r) {
			return -1
		}
		return r
	}, s)
}

// Tokenize strips punctuation and splits on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(RemovePunctuation(s))
}
