package compare

import (
	"context"
	"errors"
	"testing"
)

func newComparer(t *testing.T) *Comparer {
	t.Helper()
	c, err := NewComparer()
	if err != nil {
		t.Fatalf("NewComparer failed: %v", err)
	}
	return c
}

func TestCompare(t *testing.T) {
	c := newComparer(t)

	got := c.Compare("running")
	if got.Word != "running" || got.Raw != "run" || got.Corrected != "run" {
		t.Errorf("Unexpected custom columns: %+v", got)
	}
	if got.Porter != "run" {
		t.Errorf("Expected porter run, got %s", got.Porter)
	}
	if got.Snowball != "run" {
		t.Errorf("Expected snowball run, got %s", got.Snowball)
	}
	if got.Lemma != "run" {
		t.Errorf("Expected lemma run, got %s", got.Lemma)
	}
	if !got.Agrees() {
		t.Error("Expected custom and porter stems to agree")
	}
}

func TestCompareCorrectedColumn(t *testing.T) {
	c := newComparer(t)

	got := c.Compare("Matrices")
	if got.Raw != "matric" {
		t.Errorf("Expected raw matric, got %s", got.Raw)
	}
	if got.Corrected != "matrix" {
		t.Errorf("Expected corrected matrix, got %s", got.Corrected)
	}
	if got.Singular != "matrix" {
		t.Errorf("Expected singular matrix, got %s", got.Singular)
	}
}

func TestComparePlural(t *testing.T) {
	c := newComparer(t)

	got := c.Compare("cats")
	for name, value := range map[string]string{
		"raw":      got.Raw,
		"porter":   got.Porter,
		"snowball": got.Snowball,
		"lemma":    got.Lemma,
		"singular": got.Singular,
	} {
		if value != "cat" {
			t.Errorf("Expected %s column cat, got %s", name, value)
		}
	}
}

func TestCompareShortWordBypass(t *testing.T) {
	c := newComparer(t)
	if got := c.Compare("Go"); got.Raw != "Go" || got.Corrected != "Go" {
		t.Errorf("Expected bypass to keep casing, got %+v", got)
	}
}

func TestCompareAll(t *testing.T) {
	c := newComparer(t)
	words := []string{"cats", "running", "matrices", "beautiful", "hopping"}

	rows, err := c.CompareAll(context.Background(), words)
	if err != nil {
		t.Fatalf("CompareAll failed: %v", err)
	}
	if len(rows) != len(words) {
		t.Fatalf("Expected %d rows, got %d", len(words), len(rows))
	}
	for i, row := range rows {
		if row.Word != words[i] {
			t.Errorf("Row %d out of order: %s", i, row.Word)
		}
	}
	if rows[3].Corrected != "beauty" {
		t.Errorf("Expected beauty, got %s", rows[3].Corrected)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.CompareAll(ctx, words); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
