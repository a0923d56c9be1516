package vector

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":       ModeBoW,
		"bow":    ModeBoW,
		"Count":  ModeBoW,
		"tfidf":  ModeTfidf,
		"TF-IDF": ModeTfidf,
	}
	for name, expected := range tests {
		got, err := ParseMode(name)
		if err != nil || got != expected {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", name, got, err, expected)
		}
	}
	if _, err := ParseMode("word2vec"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}

func TestVectorize(t *testing.T) {
	bow, err := Vectorize(docs, ModeBoW, nil)
	if err != nil {
		t.Fatalf("Vectorize bow failed: %v", err)
	}
	if bow.Counts == nil || bow.Weights != nil {
		t.Errorf("Expected only counts for bow, got %+v", bow)
	}
	if len(bow.Features) != 7 {
		t.Errorf("Expected 7 features, got %v", bow.Features)
	}

	tfidf, err := Vectorize(docs, ModeTfidf, nil)
	if err != nil {
		t.Fatalf("Vectorize tfidf failed: %v", err)
	}
	if tfidf.Weights == nil || tfidf.Counts != nil {
		t.Errorf("Expected only weights for tfidf, got %+v", tfidf)
	}
	if !reflect.DeepEqual(bow.Features, tfidf.Features) {
		t.Errorf("Feature mismatch: %v vs %v", bow.Features, tfidf.Features)
	}

	stems, err := Vectorize([]string{"running cats", "cats"}, ModeBoW, func(doc string) []string {
		return strings.Fields(strings.ReplaceAll(strings.ReplaceAll(doc, "running", "run"), "cats", "cat"))
	})
	if err != nil {
		t.Fatalf("Vectorize with tokenizer failed: %v", err)
	}
	if !reflect.DeepEqual(stems.Features, []string{"cat", "run"}) {
		t.Errorf("Expected [cat run], got %v", stems.Features)
	}

	if _, err := Vectorize(docs, Mode("bogus"), nil); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
	if _, err := Vectorize(nil, ModeBoW, nil); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("Expected ErrEmptyVocabulary, got %v", err)
	}
}
