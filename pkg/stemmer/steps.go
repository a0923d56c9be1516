package stemmer

import (
	"strings"
	"unicode/utf8"
)

// suffixRule rewrites suffix to replacement when the residual base has a
// measure strictly greater than minMeasure.
type suffixRule struct {
	suffix      string
	replacement string
	minMeasure  int
}

// Rule order matters: the first rule whose suffix matches and whose measure
// condition holds wins. A matching suffix that fails its measure check does
// not stop the scan.
var step2Rules = []suffixRule{
	{"ational", "ate", 0},
	{"tional", "tion", 0},
	{"enci", "ence", 0},
	{"anci", "ance", 0},
	{"izer", "ize", 0},
	{"abli", "able", 0},
	{"alli", "al", 0},
	{"entli", "ent", 0},
	{"eli", "e", 0},
	{"ousli", "ous", 0},
	{"ization", "ize", 0},
	{"ation", "ate", 0},
	{"ator", "ate", 0},
	{"alism", "al", 0},
	{"iveness", "ive", 0},
	{"fulness", "ful", 0},
	{"ousness", "ous", 0},
	{"aliti", "al", 0},
	{"iviti", "ive", 0},
	{"biliti", "ble", 0},
}

var step3Rules = []suffixRule{
	{"icate", "ic", 0},
	{"ative", "", 0},
	{"alize", "al", 0},
	{"iciti", "ic", 0},
	{"ical", "ic", 0},
	{"ful", "", 0},
	{"ness", "", 0},
}

var step4Rules = []suffixRule{
	{"al", "", 1},
	{"ance", "", 1},
	{"ence", "", 1},
	{"er", "", 1},
	{"ic", "", 1},
	{"able", "", 1},
	{"ible", "", 1},
	{"ant", "", 1},
	{"ement", "", 1},
	{"ment", "", 1},
	{"ent", "", 1},
	{"sion", "", 1},
	{"tion", "", 1},
	{"ou", "", 1},
	{"ism", "", 1},
	{"ate", "", 1},
	{"iti", "", 1},
	{"ous", "", 1},
	{"ive", "", 1},
	{"ize", "", 1},
}

// replaceSuffix swaps the suffix of word for replacement. Words that do not
// end in suffix are returned unchanged.
func replaceSuffix(word, suffix, replacement string) string {
	if !strings.HasSuffix(word, suffix) {
		return word
	}
	return word[:len(word)-len(suffix)] + replacement
}

// applyRules runs one priority scan over rules.
func applyRules(word string, rules []suffixRule) string {
	for _, rule := range rules {
		if !strings.HasSuffix(word, rule.suffix) {
			continue
		}
		base := word[:len(word)-len(rule.suffix)]
		if Measure(base) > rule.minMeasure {
			return base + rule.replacement
		}
	}
	return word
}

// step1a handles plurals: sses -> ss, ies -> i, ss -> ss, s -> "".
func step1a(word string) string {
	switch {
	case strings.HasSuffix(word, "sses"):
		return replaceSuffix(word, "sses", "ss")
	case strings.HasSuffix(word, "ies"):
		return replaceSuffix(word, "ies", "i")
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s"):
		return replaceSuffix(word, "s", "")
	}
	return word
}

// step1b handles -eed, -ed and -ing.
func step1b(word string) string {
	if strings.HasSuffix(word, "eed") {
		if Measure(word[:len(word)-3]) > 0 {
			return replaceSuffix(word, "eed", "ee")
		}
		return word
	}

	for _, suffix := range []string{"ed", "ing"} {
		if !strings.HasSuffix(word, suffix) {
			continue
		}
		base := word[:len(word)-len(suffix)]
		if HasVowel(base) {
			return adjustStep1b(base)
		}
		return word
	}

	return word
}

// adjustStep1b tidies the base left after -ed/-ing removal
// (conflat -> conflate, hopp -> hop, fil -> file).
func adjustStep1b(base string) string {
	if strings.HasSuffix(base, "at") || strings.HasSuffix(base, "bl") || strings.HasSuffix(base, "iz") {
		return base + "e"
	}

	if EndsDoubleConsonant(base) {
		last, size := utf8.DecodeLastRuneInString(base)
		switch last {
		case 'l', 's', 'z':
		default:
			return base[:len(base)-size]
		}
	}

	if Measure(base) == 1 && EndsCVC(base) {
		return base + "e"
	}

	return base
}

// step1c turns a terminal y into i when the rest of the word has a vowel.
func step1c(word string) string {
	if strings.HasSuffix(word, "y") && HasVowel(word[:len(word)-1]) {
		return replaceSuffix(word, "y", "i")
	}
	return word
}

func step2(word string) string { return applyRules(word, step2Rules) }

func step3(word string) string { return applyRules(word, step3Rules) }

// step4 strips residual suffixes when m(base) > 1. For -sion and -tion the
// classical rule requires the base to end in s or t; that check is not
// applied, both endings are always stripped.
func step4(word string) string { return applyRules(word, step4Rules) }

// step5a removes a final e when m > 1, or when m == 1 and the base does not
// end in CVC.
func step5a(word string) string {
	if !strings.HasSuffix(word, "e") {
		return word
	}

	base := word[:len(word)-1]
	m := Measure(base)
	if m > 1 || (m == 1 && !EndsCVC(base)) {
		return base
	}
	return word
}

// step5b reduces a final double l when m > 1 (controll -> control).
func step5b(word string) string {
	if strings.HasSuffix(word, "l") && EndsDoubleConsonant(word) && Measure(word) > 1 {
		return word[:len(word)-1]
	}
	return word
}
