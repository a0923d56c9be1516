package vector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unsupported names.
var ErrUnknownMode = errors.New("unknown vectorize mode")

// Mode selects the weighting used by Vectorize.
type Mode string

const (
	ModeBoW   Mode = "bow"
	ModeTfidf Mode = "tfidf"
)

// ParseMode accepts "bow", "count", "tfidf" or "tf-idf". Empty means bow.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bow", "count":
		return ModeBoW, nil
	case "tfidf", "tf-idf":
		return ModeTfidf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Result is a fitted matrix together with its column names. Exactly one of
// Counts and Weights is set, depending on Mode.
type Result struct {
	Mode     Mode            `json:"mode" yaml:"mode"`
	Features []string        `json:"features" yaml:"features"`
	Counts   Matrix[int]     `json:"counts,omitempty" yaml:"counts,omitempty"`
	Weights  Matrix[float32] `json:"weights,omitempty" yaml:"weights,omitempty"`
}

// Vectorize fits a vectorizer for mode on docs and transforms them.
func Vectorize(docs []string, mode Mode, tokenize Tokenizer) (*Result, error) {
	switch mode {
	case ModeBoW:
		v := NewCountVectorizer(tokenize)
		m, err := v.FitTransform(docs)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: mode, Features: v.FeatureNames(), Counts: m}, nil
	case ModeTfidf:
		v := NewTfidfVectorizer(tokenize)
		m, err := v.FitTransform(docs)
		if err != nil {
			return nil, err
		}
		return &Result{Mode: mode, Features: v.FeatureNames(), Weights: m}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
