package stemmer

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestStemAll(t *testing.T) {
	words := make([]string, 0, 1000)
	for i := 0; i < 100; i++ {
		words = append(words, "caresses", "ponies", "beautiful", "hopping", "Go",
			"relational", "matrices", "agreed", fmt.Sprintf("word%d", i), "")
	}

	results, err := StemAll(context.Background(), words, &BatchOptions{Workers: 4, ChunkSize: 7})
	if err != nil {
		t.Fatalf("StemAll failed: %v", err)
	}
	if len(results) != len(words) {
		t.Fatalf("Expected %d results, got %d", len(words), len(results))
	}

	for i, r := range results {
		if r.Word != words[i] {
			t.Fatalf("Result %d out of order: %q != %q", i, r.Word, words[i])
		}
		if r.Stem != Stem(words[i]) {
			t.Errorf("Result %d: stem %q, want %q", i, r.Stem, Stem(words[i]))
		}
		if r.Corrected != StemCorrected(words[i]) {
			t.Errorf("Result %d: corrected %q, want %q", i, r.Corrected, StemCorrected(words[i]))
		}
	}
}

func TestStemAllDefaults(t *testing.T) {
	results, err := StemAll(context.Background(), []string{"dogs"}, nil)
	if err != nil {
		t.Fatalf("StemAll failed: %v", err)
	}
	if len(results) != 1 || results[0].Stem != "dog" {
		t.Errorf("Expected [dog], got %+v", results)
	}

	empty, err := StemAll(context.Background(), nil, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected empty result, got %v, %v", empty, err)
	}
}

func TestStemAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StemAll(ctx, []string{"caresses", "ponies"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
