package text

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestWatchStopWords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	if err := os.WriteFile(path, []byte("cats\n"), 0644); err != nil {
		t.Fatalf("Failed to write stop words: %v", err)
	}

	a := NewAnalyzer()
	w, err := WatchStopWords(a, path, nil)
	if err != nil {
		t.Fatalf("WatchStopWords failed: %v", err)
	}
	defer w.Close()

	if terms := a.Terms("cats dogs"); len(terms) != 1 || terms[0] != "dog" {
		t.Fatalf("Expected [dog] after initial load, got %v", terms)
	}

	if err := os.WriteFile(path, []byte("dogs\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite stop words: %v", err)
	}
	waitFor(t, func() bool {
		return a.StopWords().Contains("dogs") && !a.StopWords().Contains("cats")
	})

	if terms := a.Terms("cats dogs"); len(terms) != 1 || terms[0] != "cat" {
		t.Errorf("Expected [cat] after reload, got %v", terms)
	}

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("cats\n"), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if a.StopWords().Contains("cats") {
		t.Error("Expected unrelated file to be ignored")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}
}

func TestWatchStopWordsMissingFile(t *testing.T) {
	_, err := WatchStopWords(NewAnalyzer(), filepath.Join(t.TempDir(), "missing.txt"), nil)
	if err == nil {
		t.Error("Expected error for missing file")
	}
}
