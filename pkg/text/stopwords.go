package text

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// StopWords is a set of lower-cased words dropped before stemming.
type StopWords map[string]struct{}

// NewStopWords builds a set from words, lower-casing each one.
func NewStopWords(words ...string) StopWords {
	sw := make(StopWords, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			sw[w] = struct{}{}
		}
	}
	return sw
}

// Contains reports whether word (already lower-cased) is a stop word.
func (sw StopWords) Contains(word string) bool {
	_, ok := sw[word]
	return ok
}

// Len returns the number of stop words.
func (sw StopWords) Len() int {
	return len(sw)
}

// Words returns the stop words in sorted order.
func (sw StopWords) Words() []string {
	words := make([]string, 0, len(sw))
	for w := range sw {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// LoadStopWords reads one word per line. Blank lines and lines starting with
// '#' are skipped.
func LoadStopWords(r io.Reader) (StopWords, error) {
	sw := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sw[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop words: %w", err)
	}
	return sw, nil
}

// LoadStopWordsFile reads a stop-word file from disk.
func LoadStopWordsFile(path string) (StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stop words file: %w", err)
	}
	defer f.Close()
	return LoadStopWords(f)
}

// EnglishStopWords returns the NLTK English stop-word list.
func EnglishStopWords() StopWords {
	return NewStopWords(englishStopWords...)
}

var englishStopWords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
	"you're", "you've", "you'll", "you'd", "your", "yours", "yourself",
	"yourselves", "he", "him", "his", "himself", "she", "she's", "her", "hers",
	"herself", "it", "it's", "its", "itself", "they", "them", "their", "theirs",
	"themselves", "what", "which", "who", "whom", "this", "that", "that'll",
	"these", "those", "am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing", "a", "an",
	"the", "and", "but", "if", "or", "because", "as", "until", "while", "of",
	"at", "by", "for", "with", "about", "against", "between", "into", "through",
	"during", "before", "after", "above", "below", "to", "from", "up", "down",
	"in", "out", "on", "off", "over", "under", "again", "further", "then",
	"once", "here", "there", "when", "where", "why", "how", "all", "any",
	"both", "each", "few", "more", "most", "other", "some", "such", "no", "nor",
	"not", "only", "own", "same", "so", "than", "too", "very", "s", "t", "can",
	"will", "just", "don", "don't", "should", "should've", "now", "d", "ll",
	"m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
	"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't",
	"haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn",
	"mustn't", "needn", "needn't", "shan", "shan't", "shouldn", "shouldn't",
	"wasn", "wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}
