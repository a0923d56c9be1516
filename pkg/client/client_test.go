package client

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mnohosten/laura-stem/pkg/server"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Host != "localhost" {
		t.Errorf("expected host 'localhost', got '%s'", config.Host)
	}
	if config.Port != 8080 {
		t.Errorf("expected port 8080, got %d", config.Port)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", config.Timeout)
	}
	if config.RetryMax != 2 {
		t.Errorf("expected 2 retries, got %d", config.RetryMax)
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{"host and port", &Config{Host: "example.com", Port: 9090}, "http://example.com:9090"},
		{"defaults", &Config{Host: "testhost"}, "http://testhost:8080"},
		{"nil config", nil, "http://localhost:8080"},
		{"base url", &Config{BaseURL: "https://stem.example.com/"}, "https://stem.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.config)
			if client.baseURL != tt.expected {
				t.Errorf("expected baseURL '%s', got '%s'", tt.expected, client.baseURL)
			}
		})
	}
}

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Write([]byte(`{"ok":true,"result":{"status":"healthy","uptime":"1s","time":"2026-01-02T03:04:05Z"}}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, APIKey: "secret"})
	health, err := client.Health()
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Status != "healthy" || health.Time.Year() != 2026 {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"ok":false,"error":"NotFound","message":"document not found: x","code":404}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL})
	_, err := client.GetDocument("x")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != http.StatusNotFound || apiErr.Type != "NotFound" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"ok":false,"error":"Unavailable","message":"busy","code":503}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{"word":"cats","stem":"cat","corrected":"cat"}}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, RetryMax: 2, RetryWaitMin: time.Millisecond, RetryWaitMax: 5 * time.Millisecond})
	result, err := client.Stem("cats", false)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.Stem != "cat" || calls.Load() != 3 {
		t.Errorf("Expected cat after 3 calls, got %q after %d", result.Stem, calls.Load())
	}

	calls.Store(0)
	noRetry := NewClient(&Config{BaseURL: srv.URL})
	_, err = noRetry.Stem("cats", false)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected the 503 envelope without retries, got %v", err)
	}
}

func TestInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL})
	if _, err := client.Health(); err == nil {
		t.Error("expected a parse error")
	}
}

func newIntegrationClient(t *testing.T) *Client {
	t.Helper()

	config := server.DefaultConfig()
	config.DataDir = t.TempDir()
	config.EnableLogging = false
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := server.New(config)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(func() { srv.Shutdown() })

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client := NewClient(&Config{BaseURL: ts.URL})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestStemming(t *testing.T) {
	client := newIntegrationClient(t)

	result, err := client.Stem("generously", true)
	if err != nil {
		t.Fatalf("Stem failed: %v", err)
	}
	if result.Stem != "gener" || result.Corrected != "generous" {
		t.Errorf("expected gener/generous, got %+v", result)
	}
	if result.Trace == nil || len(result.Trace.Steps) != 8 {
		t.Errorf("expected an eight step trace, got %+v", result.Trace)
	}

	batch, err := client.StemBatch([]string{"ponies", "beautiful"}, false)
	if err != nil {
		t.Fatalf("StemBatch failed: %v", err)
	}
	if len(batch) != 2 || batch[0].Stem != "poni" || batch[1].Corrected != "beauti" {
		t.Errorf("unexpected batch %+v", batch)
	}

	corrected, err := client.Correct("university", "univers")
	if err != nil || corrected != "univers" {
		t.Errorf("expected univers, got %q (%v)", corrected, err)
	}

	table, err := client.Corrections()
	if err != nil || len(table) != 7 {
		t.Errorf("expected 7 corrections, got %v (%v)", table, err)
	}
}

func TestAnalyzeAndCompare(t *testing.T) {
	client := newIntegrationClient(t)

	tokens, err := client.Analyze("Happiness is agreed", true)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Stem != "happi" || tokens[1].Stem != "agre" {
		t.Errorf("unexpected tokens %+v", tokens)
	}

	cmp, err := client.Compare("running")
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if cmp.Porter != "run" || cmp.Snowball != "run" {
		t.Errorf("unexpected comparison %+v", cmp)
	}
}

func TestVectorize(t *testing.T) {
	client := newIntegrationClient(t)

	vectors, err := client.Vectorize([]string{"cats running", "cat runs"}, "bow", true)
	if err != nil {
		t.Fatalf("Vectorize failed: %v", err)
	}
	if len(vectors.Features) != 2 || vectors.Features[0] != "cat" || vectors.Features[1] != "run" {
		t.Errorf("expected [cat run], got %v", vectors.Features)
	}
	if vectors.Counts[0][0] != 1 || vectors.Counts[1][1] != 1 {
		t.Errorf("unexpected counts %v", vectors.Counts)
	}

	if _, err := client.Vectorize([]string{"x"}, "lsa", false); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestDocuments(t *testing.T) {
	client := newIntegrationClient(t)

	doc, err := client.AddDocument("d1", "Organization of matrices")
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if doc.ID != "d1" || doc.CreatedAt.IsZero() {
		t.Errorf("unexpected document %+v", doc)
	}
	if _, err := client.AddDocument("", "Generously multiplied"); err != nil {
		t.Fatalf("AddDocument without id failed: %v", err)
	}

	got, err := client.GetDocument("d1")
	if err != nil || got.Text != "Organization of matrices" {
		t.Errorf("unexpected document %+v (%v)", got, err)
	}

	docs, err := client.ListDocuments()
	if err != nil || len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d (%v)", len(docs), err)
	}

	hits, err := client.Search("matrix", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "d1" || hits[0].Document == nil {
		t.Errorf("expected a hit on d1, got %+v", hits)
	}

	vectors, err := client.DocumentVectors("tfidf")
	if err != nil {
		t.Fatalf("DocumentVectors failed: %v", err)
	}
	if len(vectors.IDs) != 2 || len(vectors.Weights) != 2 {
		t.Errorf("expected two weighted rows, got %+v", vectors)
	}

	if err := client.DeleteDocument("d1"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	_, err = client.GetDocument("d1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %v", err)
	}
}
