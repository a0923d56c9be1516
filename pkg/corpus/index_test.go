package corpus

import (
	"testing"
)

func TestInvertedIndexBasic(t *testing.T) {
	idx := NewInvertedIndex(nil)

	idx.Index("doc1", "The quick brown fox jumps over the lazy dog")
	idx.Index("doc2", "The lazy dog sleeps all day")
	idx.Index("doc3", "A quick brown fox is very fast")

	hits := idx.Search("quick fox", 0)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}

	found := map[string]bool{}
	for _, hit := range hits {
		found[hit.ID] = true
		if hit.Score <= 0 {
			t.Errorf("Expected positive score for %s", hit.ID)
		}
	}
	if !found["doc1"] || !found["doc3"] {
		t.Errorf("Expected doc1 and doc3, got %+v", hits)
	}
}

func TestInvertedIndexRemove(t *testing.T) {
	idx := NewInvertedIndex(nil)

	idx.Index("doc1", "The quick brown fox")
	idx.Index("doc2", "A lazy dog")

	hits := idx.Search("quick fox", 0)
	if len(hits) != 1 || hits[0].ID != "doc1" {
		t.Fatalf("Expected to find doc1, got %+v", hits)
	}

	idx.Remove("doc1")
	if hits := idx.Search("quick fox", 0); len(hits) != 0 {
		t.Errorf("Expected no hits after removal, got %d", len(hits))
	}

	hits = idx.Search("lazy dog", 0)
	if len(hits) != 1 || hits[0].ID != "doc2" {
		t.Error("Expected to still find doc2")
	}

	// Removing an unknown document leaves the stats alone.
	idx.Remove("missing")
	if stats := idx.Stats(); stats.Documents != 1 {
		t.Errorf("Expected 1 document, got %d", stats.Documents)
	}
}

func TestInvertedIndexReindex(t *testing.T) {
	idx := NewInvertedIndex(nil)

	idx.Index("doc1", "quick fox")
	idx.Index("doc1", "lazy dog")

	if hits := idx.Search("fox", 0); len(hits) != 0 {
		t.Errorf("Expected old terms to be gone, got %+v", hits)
	}
	stats := idx.Stats()
	if stats.Documents != 1 || stats.Terms != 2 || stats.AvgDocLength != 2 {
		t.Errorf("Unexpected stats after reindex: %+v", stats)
	}
}

func TestInvertedIndexStats(t *testing.T) {
	idx := NewInvertedIndex(nil)

	if stats := idx.Stats(); stats.Documents != 0 || stats.AvgDocLength != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	idx.Index("doc1", "The quick brown fox")
	idx.Index("doc2", "A lazy dog")
	idx.Index("doc3", "Quick jumps")

	stats := idx.Stats()
	if stats.Documents != 3 {
		t.Errorf("Expected 3 documents, got %d", stats.Documents)
	}
	// quick brown fox lazy dog jump
	if stats.Terms != 6 || idx.Size() != 6 {
		t.Errorf("Expected 6 terms, got %d", stats.Terms)
	}
	if stats.AvgDocLength != 7.0/3.0 {
		t.Errorf("Expected average length 7/3, got %f", stats.AvgDocLength)
	}
}

func TestRelevanceScoring(t *testing.T) {
	idx := NewInvertedIndex(nil)

	idx.Index("doc1", "This is a database system")
	idx.Index("doc2", "Database database database")
	idx.Index("doc3", "A completely different document")

	hits := idx.Search("database", 0)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "doc2" || hits[1].ID != "doc1" {
		t.Errorf("Expected doc2 ranked above doc1, got %+v", hits)
	}
}

func TestSearchLimitAndEmptyQuery(t *testing.T) {
	idx := NewInvertedIndex(nil)
	idx.Index("a", "stemming rules")
	idx.Index("b", "stemming algorithms")
	idx.Index("c", "stemming words")

	if hits := idx.Search("stemming", 2); len(hits) != 2 {
		t.Errorf("Expected 2 hits with limit, got %d", len(hits))
	}
	if hits := idx.Search("the and of", 0); hits != nil {
		t.Errorf("Expected nil for stop-word query, got %+v", hits)
	}
	if hits := idx.Search("", 0); hits != nil {
		t.Errorf("Expected nil for empty query, got %+v", hits)
	}
}

func TestStemmingInSearch(t *testing.T) {
	idx := NewInvertedIndex(nil)
	idx.Index("doc1", "The runner was running quickly")
	idx.Index("doc2", "Beautiful matrices")

	if hits := idx.Search("runs", 0); len(hits) != 1 || hits[0].ID != "doc1" {
		t.Errorf("Expected runs to match running, got %+v", hits)
	}
	// The correction table maps matrices onto matrix.
	if hits := idx.Search("matrix", 0); len(hits) != 1 || hits[0].ID != "doc2" {
		t.Errorf("Expected corrected stems to match, got %+v", hits)
	}
}

func TestCaseInsensitivity(t *testing.T) {
	idx := NewInvertedIndex(nil)
	idx.Index("doc1", "GOLANG Stemmer")

	if hits := idx.Search("golang stemmer", 0); len(hits) != 1 {
		t.Errorf("Expected case-insensitive match, got %+v", hits)
	}
}
