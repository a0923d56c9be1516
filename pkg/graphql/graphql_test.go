package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/graphql-go/graphql"

	"github.com/mnohosten/laura-stem/pkg/compare"
	"github.com/mnohosten/laura-stem/pkg/corpus"
)

func newTestSchema(t *testing.T, withStore bool) graphql.Schema {
	t.Helper()

	svc := Services{}
	if withStore {
		store, err := corpus.Open(filepath.Join(t.TempDir(), "corpus.db"), nil)
		if err != nil {
			t.Fatalf("Failed to open corpus: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		svc.Store = store
	}

	schema, err := Schema(svc)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return schema
}

// execute runs query and decodes its data into target through JSON.
func execute(t *testing.T, schema graphql.Schema, query string, target any) *graphql.Result {
	t.Helper()

	result := graphql.Do(graphql.Params{Schema: schema, RequestString: query})
	if target == nil {
		return result
	}
	if len(result.Errors) > 0 {
		t.Fatalf("GraphQL errors: %v", result.Errors)
	}
	raw, err := json.Marshal(result.Data)
	if err != nil {
		t.Fatalf("Failed to marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
	return result
}

func TestGraphQLSchema(t *testing.T) {
	schema := newTestSchema(t, false)

	if schema.QueryType() == nil {
		t.Fatal("Query type is nil")
	}
	if schema.MutationType() == nil {
		t.Fatal("Mutation type is nil")
	}
}

func TestGraphQLStem(t *testing.T) {
	schema := newTestSchema(t, false)

	var data struct {
		Corrected struct {
			Stem      string `json:"stem"`
			Corrected string `json:"corrected"`
		} `json:"corrected"`
		Raw struct {
			Corrected string `json:"corrected"`
		} `json:"raw"`
	}
	execute(t, schema, `{
		corrected: stem(word: "generously") { stem corrected }
		raw: stem(word: "generously", correct: false) { corrected }
	}`, &data)

	if data.Corrected.Stem != "gener" {
		t.Errorf("Expected gener, got %s", data.Corrected.Stem)
	}
	if data.Corrected.Corrected != "generous" {
		t.Errorf("Expected generous, got %s", data.Corrected.Corrected)
	}
	if data.Raw.Corrected != "gener" {
		t.Errorf("Expected gener without corrections, got %s", data.Raw.Corrected)
	}
}

func TestGraphQLTrace(t *testing.T) {
	schema := newTestSchema(t, false)

	var data struct {
		Trace struct {
			Pattern string `json:"pattern"`
			Measure int    `json:"measure"`
			Bypass  bool   `json:"bypass"`
			Steps   []struct {
				Step    string `json:"step"`
				Output  string `json:"output"`
				Changed bool   `json:"changed"`
			} `json:"steps"`
			Stem string `json:"stem"`
		} `json:"trace"`
	}
	execute(t, schema, `{ trace(word: "relational") { pattern measure bypass steps { step output changed } stem } }`, &data)

	if data.Trace.Measure != 4 || data.Trace.Pattern != "CVCVCVVCVC" {
		t.Errorf("Unexpected pattern %s measure %d", data.Trace.Pattern, data.Trace.Measure)
	}
	if len(data.Trace.Steps) != 8 {
		t.Fatalf("Expected 8 steps, got %d", len(data.Trace.Steps))
	}
	if data.Trace.Steps[3].Output != "relate" {
		t.Errorf("Expected step 2 output relate, got %s", data.Trace.Steps[3].Output)
	}
	if data.Trace.Stem != "relat" {
		t.Errorf("Expected relat, got %s", data.Trace.Stem)
	}
}

func TestGraphQLCorrections(t *testing.T) {
	schema := newTestSchema(t, false)

	var data struct {
		Correct     string            `json:"correct"`
		Corrections map[string]string `json:"corrections"`
	}
	execute(t, schema, `{ correct(original: "Matrices", stemmed: "matric") corrections }`, &data)

	if data.Correct != "matrix" {
		t.Errorf("Expected matrix, got %s", data.Correct)
	}
	if len(data.Corrections) != 7 || data.Corrections["multiply"] != "multipl" {
		t.Errorf("Unexpected corrections %v", data.Corrections)
	}
}

func TestGraphQLAnalyze(t *testing.T) {
	schema := newTestSchema(t, false)

	var data struct {
		Analyze []struct {
			Original string `json:"original"`
			Stem     string `json:"stem"`
			Position int    `json:"position"`
		} `json:"analyze"`
	}
	execute(t, schema, `{ analyze(text: "The cats are running") { original stem position } }`, &data)

	if len(data.Analyze) != 2 {
		t.Fatalf("Expected 2 tokens, got %+v", data.Analyze)
	}
	if data.Analyze[0].Stem != "cat" || data.Analyze[0].Position != 1 {
		t.Errorf("Unexpected first token %+v", data.Analyze[0])
	}
	if data.Analyze[1].Stem != "run" || data.Analyze[1].Position != 3 {
		t.Errorf("Unexpected second token %+v", data.Analyze[1])
	}
}

func TestGraphQLVectorize(t *testing.T) {
	schema := newTestSchema(t, false)

	var data struct {
		Bow struct {
			Mode     string   `json:"mode"`
			Features []string `json:"features"`
			Matrix   [][]int  `json:"matrix"`
		} `json:"bow"`
		Tfidf struct {
			Mode   string      `json:"mode"`
			Matrix [][]float32 `json:"matrix"`
		} `json:"tfidf"`
	}
	execute(t, schema, `{
		bow: vectorize(documents: ["the cat sat", "the cat ran"]) { mode features matrix }
		tfidf: vectorize(documents: ["the cat sat", "the cat ran"], mode: "tfidf") { mode matrix }
	}`, &data)

	if data.Bow.Mode != "bow" || len(data.Bow.Features) != 4 {
		t.Errorf("Unexpected bag of words %+v", data.Bow)
	}
	if len(data.Bow.Matrix) != 2 || data.Bow.Matrix[1][1] != 1 {
		t.Errorf("Expected ran counted in the second row, got %v", data.Bow.Matrix)
	}
	if data.Tfidf.Mode != "tfidf" || len(data.Tfidf.Matrix) != 2 || len(data.Tfidf.Matrix[0]) != 4 {
		t.Errorf("Unexpected tfidf %+v", data.Tfidf)
	}

	result := execute(t, schema, `{ vectorize(documents: ["a b"], mode: "lsa") { mode } }`, nil)
	if len(result.Errors) == 0 {
		t.Error("Expected an error for an unknown mode")
	}
}

func TestGraphQLCompare(t *testing.T) {
	schema := newTestSchema(t, false)
	result := execute(t, schema, `{ compare(word: "running") { porter } }`, nil)
	if len(result.Errors) == 0 {
		t.Error("Expected an error without a comparer")
	}

	comparer, err := compare.NewComparer()
	if err != nil {
		t.Fatalf("NewComparer failed: %v", err)
	}
	schema, err = Schema(Services{Comparer: comparer})
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	var data struct {
		Compare struct {
			Raw      string `json:"raw"`
			Porter   string `json:"porter"`
			Snowball string `json:"snowball"`
			Agrees   bool   `json:"agrees"`
		} `json:"compare"`
	}
	execute(t, schema, `{ compare(word: "running") { raw porter snowball agrees } }`, &data)
	if data.Compare.Raw != "run" || data.Compare.Porter != "run" || data.Compare.Snowball != "run" {
		t.Errorf("Expected run everywhere, got %+v", data.Compare)
	}
}

func TestGraphQLDocuments(t *testing.T) {
	schema := newTestSchema(t, true)

	var added struct {
		A struct {
			ID string `json:"id"`
		} `json:"a"`
		B struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"b"`
	}
	execute(t, schema, `mutation {
		a: addDocument(id: "d1", text: "Cats are running through the garden") { id }
		b: addDocument(text: "Matrices multiply quickly") { id text }
	}`, &added)

	if added.A.ID != "d1" {
		t.Errorf("Expected d1, got %s", added.A.ID)
	}
	if added.B.ID == "" || added.B.Text != "Matrices multiply quickly" {
		t.Errorf("Expected generated id, got %+v", added.B)
	}

	var found struct {
		Document struct {
			Text      string `json:"text"`
			CreatedAt string `json:"createdAt"`
		} `json:"document"`
		Search []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"search"`
	}
	execute(t, schema, `{
		document(id: "d1") { text createdAt }
		search(query: "run") { id score }
	}`, &found)

	if found.Document.Text != "Cats are running through the garden" || found.Document.CreatedAt == "" {
		t.Errorf("Unexpected document %+v", found.Document)
	}
	if len(found.Search) != 1 || found.Search[0].ID != "d1" || found.Search[0].Score <= 0 {
		t.Errorf("Expected one hit on d1, got %+v", found.Search)
	}

	var deleted struct {
		First  bool `json:"first"`
		Second bool `json:"second"`
	}
	execute(t, schema, `mutation {
		first: deleteDocument(id: "d1")
		second: deleteDocument(id: "d1")
	}`, &deleted)
	if !deleted.First || deleted.Second {
		t.Errorf("Expected true then false, got %+v", deleted)
	}

	var missing struct {
		Document *struct {
			ID string `json:"id"`
		} `json:"document"`
	}
	execute(t, schema, `{ document(id: "d1") { id } }`, &missing)
	if missing.Document != nil {
		t.Errorf("Expected null for a deleted document, got %+v", missing.Document)
	}
}

func TestGraphQLCorpusDisabled(t *testing.T) {
	schema := newTestSchema(t, false)

	result := execute(t, schema, `{ search(query: "x") { id } }`, nil)
	if len(result.Errors) == 0 {
		t.Error("Expected an error without a corpus")
	}
}

func TestGraphQLHandler(t *testing.T) {
	handler, err := NewHandler(Services{})
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	body, _ := json.Marshal(Request{Query: `{ stem(word: "hopping") { stem } }`})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			Stem struct {
				Stem string `json:"stem"`
			} `json:"stem"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data.Stem.Stem != "hop" {
		t.Errorf("Expected hop, got %s", resp.Data.Stem.Stem)
	}

	req = httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ correct(original: "denial", stemmed: "denial") }`), nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if !bytes.Contains(w.Body.Bytes(), []byte(`"deni"`)) {
		t.Errorf("Expected deni in GET response, got %s", w.Body.String())
	}
}

func TestGraphQLHandlerErrors(t *testing.T) {
	handler, err := NewHandler(Services{})
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"invalid body", http.MethodPost, "{", http.StatusBadRequest},
		{"empty query", http.MethodPost, `{"query":""}`, http.StatusBadRequest},
		{"wrong method", http.MethodPut, `{}`, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/graphql", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestGraphiQLHandler(t *testing.T) {
	w := httptest.NewRecorder()
	GraphiQLHandler()(w, httptest.NewRequest(http.MethodGet, "/graphiql", nil))

	if w.Header().Get("Content-Type") != "text/html" {
		t.Errorf("Expected text/html, got %s", w.Header().Get("Content-Type"))
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("GraphiQL")) {
		t.Error("Expected the playground page")
	}
}
