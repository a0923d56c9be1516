// Package compare lines the custom stemmer up against reference stemmers,
// a dictionary lemmatizer and a singularizer.
package compare

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jinzhu/inflection"
	"github.com/kljensen/snowball/english"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/reiver/go-porterstemmer"
	"golang.org/x/sync/errgroup"
)

var (
	lemmatizer *golem.Lemmatizer
	loadErr    error
	initOnce   sync.Once
)

func loadLemmatizer() (*golem.Lemmatizer, error) {
	initOnce.Do(func() {
		lemmatizer, loadErr = golem.New(en.New())
		if loadErr != nil {
			loadErr = fmt.Errorf("failed to load lemmatizer: %w", loadErr)
		}
	})
	return lemmatizer, loadErr
}

// Comparison is one word run through every stemmer.
type Comparison struct {
	Word      string `json:"word" yaml:"word"`
	Raw       string `json:"raw" yaml:"raw"`
	Corrected string `json:"corrected" yaml:"corrected"`
	Porter    string `json:"porter" yaml:"porter"`
	Snowball  string `json:"snowball" yaml:"snowball"`
	Lemma     string `json:"lemma" yaml:"lemma"`
	Singular  string `json:"singular" yaml:"singular"`
}

// Agrees reports whether the custom stem matches the reference Porter stem.
func (c Comparison) Agrees() bool {
	return c.Raw == c.Porter
}

// Comparer produces Comparisons. The English dictionary is loaded once per
// process on first use.
type Comparer struct {
	lemmatizer *golem.Lemmatizer
}

// NewComparer loads the lemmatizer dictionary.
func NewComparer() (*Comparer, error) {
	l, err := loadLemmatizer()
	if err != nil {
		return nil, err
	}
	return &Comparer{lemmatizer: l}, nil
}

// Compare runs word through every stemmer. The reference columns receive the
// lower-cased word; the custom columns keep the short-word bypass.
func (c *Comparer) Compare(word string) Comparison {
	lower := strings.ToLower(word)
	raw := stemmer.Stem(word)
	return Comparison{
		Word:      word,
		Raw:       raw,
		Corrected: stemmer.Correct(word, raw),
		Porter:    porterstemmer.StemString(lower),
		Snowball:  english.Stem(lower, true),
		Lemma:     c.lemmatizer.Lemma(lower),
		Singular:  inflection.Singular(lower),
	}
}

// CompareAll compares words concurrently, keeping input order.
func (c *Comparer) CompareAll(ctx context.Context, words []string) ([]Comparison, error) {
	out := make([]Comparison, len(words))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, w := range words {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = c.Compare(w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
