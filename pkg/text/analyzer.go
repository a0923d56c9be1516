package text

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/mnohosten/laura-stem/pkg/cache"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
)

// Token is one analyzed word.
type Token struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	Stem       string `json:"stem"`
	Position   int    `json:"position"`
}

// Analyzer handles tokenization, stop-word removal and stemming
type Analyzer struct {
	stopWords atomic.Pointer[StopWords]
	correct   bool
	minLength int
	stems     *cache.Sharded[string] // raw stems by normalized word, optional
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStopWords replaces the default English stop words. A nil set disables
// stop-word removal.
func WithStopWords(sw StopWords) Option {
	return func(a *Analyzer) {
		if sw == nil {
			sw = StopWords{}
		}
		a.stopWords.Store(&sw)
	}
}

// WithCorrections applies the correction table after stemming.
func WithCorrections(enabled bool) Option {
	return func(a *Analyzer) {
		a.correct = enabled
	}
}

// WithMinLength drops tokens shorter than n runes.
func WithMinLength(n int) Option {
	return func(a *Analyzer) {
		a.minLength = n
	}
}

// WithStemCache memoizes raw stems in c. Corrections are applied after the
// lookup so analyzers with different correction settings can share c.
func WithStemCache(c *cache.Sharded[string]) Option {
	return func(a *Analyzer) {
		a.stems = c
	}
}

// NewAnalyzer creates a text analyzer with English stop words and corrections
// enabled.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{correct: true, minLength: 1}
	sw := EnglishStopWords()
	a.stopWords.Store(&sw)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StopWords returns the active stop-word set.
func (a *Analyzer) StopWords() StopWords {
	return *a.stopWords.Load()
}

// SetStopWords swaps the stop-word set. Safe for concurrent use with Analyze.
func (a *Analyzer) SetStopWords(sw StopWords) {
	if sw == nil {
		sw = StopWords{}
	}
	a.stopWords.Store(&sw)
}

// Corrections reports whether the correction table is applied.
func (a *Analyzer) Corrections() bool {
	return a.correct
}

// WithCorrectionsEnabled returns an analyzer sharing a's stop words, minimum
// length and stem cache but with the correction table switched on or off.
// It returns a itself when the setting already matches.
func (a *Analyzer) WithCorrectionsEnabled(enabled bool) *Analyzer {
	if enabled == a.correct {
		return a
	}
	return NewAnalyzer(
		WithStopWords(a.StopWords()),
		WithCorrections(enabled),
		WithMinLength(a.minLength),
		WithStemCache(a.stems),
	)
}

// CacheStats returns the stem cache statistics, or false when no cache is set.
func (a *Analyzer) CacheStats() (cache.Stats, bool) {
	if a.stems == nil {
		return cache.Stats{}, false
	}
	return a.stems.Stats(), true
}

func (a *Analyzer) stem(normalized string) string {
	if a.stems == nil {
		return stemmer.Stem(normalized)
	}
	return a.stems.GetOrCompute(normalized, func() string {
		return stemmer.Stem(normalized)
	})
}

// Analyze processes text and returns the surviving tokens. Positions count
// every token, including the ones dropped as stop words.
func (a *Analyzer) Analyze(text string) []Token {
	stopWords := a.StopWords()
	words := Tokenize(text)

	result := make([]Token, 0, len(words))
	for pos, word := range words {
		normalized := strings.ToLower(word)
		if utf8.RuneCountInString(normalized) < a.minLength {
			continue
		}
		if stopWords.Contains(normalized) {
			continue
		}

		stem := a.stem(normalized)
		if a.correct {
			stem = stemmer.Correct(normalized, stem)
		}

		result = append(result, Token{
			Original:   word,
			Normalized: normalized,
			Stem:       stem,
			Position:   pos,
		})
	}
	return result
}

// Terms returns only the stems of Analyze.
func (a *Analyzer) Terms(text string) []string {
	tokens := a.Analyze(text)
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Stem
	}
	return terms
}
