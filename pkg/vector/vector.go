// Package vector turns documents into bag-of-words and TF-IDF matrices.
//
// The defaults follow the usual scikit-learn behavior: text is lower-cased,
// terms are runs of two or more Unicode letters, digits or underscores, and feature names are
// sorted so that column order is stable.
package vector

import (
	"errors"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("vectorizer is not fitted")
	// ErrEmptyVocabulary is returned when the documents contain no terms.
	ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain no terms")
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Tokenizer splits a document into terms.
type Tokenizer func(doc string) []string

// DefaultTokenizer lower-cases doc and extracts runs of two or more letters,
// digits or underscores. Non-ASCII letters count as word characters.
func DefaultTokenizer(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

// Number is the element type of a Matrix.
type Number interface {
	~int | ~float32
}

// Matrix is a dense document-term matrix, one row per document.
type Matrix[T Number] [][]T

// Shape returns the number of rows and columns.
func (m Matrix[T]) Shape() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// CountVectorizer builds a vocabulary and counts term occurrences.
type CountVectorizer struct {
	tokenize   Tokenizer
	vocabulary map[string]int
	features   []string
}

// NewCountVectorizer creates a vectorizer. A nil tokenizer uses DefaultTokenizer.
func NewCountVectorizer(tokenize Tokenizer) *CountVectorizer {
	if tokenize == nil {
		tokenize = DefaultTokenizer
	}
	return &CountVectorizer{tokenize: tokenize}
}

// Fit learns the vocabulary of docs.
func (v *CountVectorizer) Fit(docs []string) error {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, term := range v.tokenize(doc) {
			seen[term] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return ErrEmptyVocabulary
	}

	features := make([]string, 0, len(seen))
	for term := range seen {
		features = append(features, term)
	}
	slices.Sort(features)

	vocabulary := make(map[string]int, len(features))
	for i, term := range features {
		vocabulary[term] = i
	}

	v.features = features
	v.vocabulary = vocabulary
	return nil
}

// Transform counts vocabulary terms in docs. Unknown terms are ignored.
func (v *CountVectorizer) Transform(docs []string) (Matrix[int], error) {
	if v.vocabulary == nil {
		return nil, ErrNotFitted
	}
	m := make(Matrix[int], len(docs))
	for i, doc := range docs {
		row := make([]int, len(v.features))
		for _, term := range v.tokenize(doc) {
			if col, ok := v.vocabulary[term]; ok {
				row[col]++
			}
		}
		m[i] = row
	}
	return m, nil
}

// FitTransform is Fit followed by Transform on the same documents.
func (v *CountVectorizer) FitTransform(docs []string) (Matrix[int], error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

// FeatureNames returns the sorted vocabulary.
func (v *CountVectorizer) FeatureNames() []string {
	return slices.Clone(v.features)
}

// Vocabulary returns the term to column mapping.
func (v *CountVectorizer) Vocabulary() map[string]int {
	return maps.Clone(v.vocabulary)
}
