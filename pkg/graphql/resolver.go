package graphql

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/mnohosten/laura-stem/pkg/compare"
	"github.com/mnohosten/laura-stem/pkg/corpus"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/mnohosten/laura-stem/pkg/text"
	"github.com/mnohosten/laura-stem/pkg/vector"
)

var (
	// ErrCorpusDisabled is returned by corpus fields when no store is configured.
	ErrCorpusDisabled = errors.New("corpus is not enabled on this server")
	// ErrCompareDisabled is returned by compare when no comparer is configured.
	ErrCompareDisabled = errors.New("compare is not enabled on this server")
)

// Services are the backends the resolver reads from. Store and Comparer are
// optional.
type Services struct {
	Analyzer *text.Analyzer
	Store    *corpus.Store
	Comparer *compare.Comparer
}

// Resolver handles GraphQL query and mutation resolution
type Resolver struct {
	svc Services
}

// NewResolver creates a new Resolver instance
func NewResolver(svc Services) *Resolver {
	if svc.Analyzer == nil {
		svc.Analyzer = text.NewAnalyzer()
	}
	return &Resolver{svc: svc}
}

func boolArg(p graphql.ResolveParams, name string, fallback bool) bool {
	if v, ok := p.Args[name].(bool); ok {
		return v
	}
	return fallback
}

func documentMap(doc *corpus.Document) map[string]any {
	return map[string]any{
		"id":        doc.ID,
		"text":      doc.Text,
		"createdAt": doc.CreatedAt,
	}
}

// Stem resolves the stem query
func (r *Resolver) Stem(p graphql.ResolveParams) (any, error) {
	word, _ := p.Args["word"].(string)
	stem := stemmer.Stem(word)
	corrected := stem
	if boolArg(p, "correct", true) {
		corrected = stemmer.Correct(word, stem)
	}
	return map[string]any{
		"word":      word,
		"stem":      stem,
		"corrected": corrected,
	}, nil
}

// Trace resolves the trace query
func (r *Resolver) Trace(p graphql.ResolveParams) (any, error) {
	word, _ := p.Args["word"].(string)
	trace := stemmer.TraceStem(word)

	steps := make([]map[string]any, len(trace.Steps))
	for i, s := range trace.Steps {
		steps[i] = map[string]any{
			"step":    s.Step,
			"output":  s.Output,
			"changed": s.Changed,
		}
	}
	return map[string]any{
		"word":    trace.Word,
		"pattern": trace.Pattern,
		"measure": trace.Measure,
		"bypass":  trace.Bypass,
		"steps":   steps,
		"stem":    trace.Stem,
	}, nil
}

// Correct resolves the correct query
func (r *Resolver) Correct(p graphql.ResolveParams) (any, error) {
	original, _ := p.Args["original"].(string)
	stemmed, _ := p.Args["stemmed"].(string)
	return stemmer.Correct(original, stemmed), nil
}

// Corrections resolves the corrections query
func (r *Resolver) Corrections(p graphql.ResolveParams) (any, error) {
	table := stemmer.Corrections()
	out := make(map[string]any, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, nil
}

// Analyze resolves the analyze query
func (r *Resolver) Analyze(p graphql.ResolveParams) (any, error) {
	input, _ := p.Args["text"].(string)

	analyzer := r.svc.Analyzer
	if correct, ok := p.Args["correct"].(bool); ok {
		analyzer = analyzer.WithCorrectionsEnabled(correct)
	}

	tokens := analyzer.Analyze(input)
	results := make([]map[string]any, len(tokens))
	for i, tok := range tokens {
		results[i] = map[string]any{
			"original":   tok.Original,
			"normalized": tok.Normalized,
			"stem":       tok.Stem,
			"position":   tok.Position,
		}
	}
	return results, nil
}

// Compare resolves the compare query
func (r *Resolver) Compare(p graphql.ResolveParams) (any, error) {
	if r.svc.Comparer == nil {
		return nil, ErrCompareDisabled
	}
	word, _ := p.Args["word"].(string)
	c := r.svc.Comparer.Compare(word)
	return map[string]any{
		"word":      c.Word,
		"raw":       c.Raw,
		"corrected": c.Corrected,
		"porter":    c.Porter,
		"snowball":  c.Snowball,
		"lemma":     c.Lemma,
		"singular":  c.Singular,
		"agrees":    c.Agrees(),
	}, nil
}

// Vectorize resolves the vectorize query
func (r *Resolver) Vectorize(p graphql.ResolveParams) (any, error) {
	rawDocs, _ := p.Args["documents"].([]any)
	docs := make([]string, 0, len(rawDocs))
	for _, d := range rawDocs {
		s, ok := d.(string)
		if !ok {
			return nil, fmt.Errorf("documents must be strings")
		}
		docs = append(docs, s)
	}

	modeName, _ := p.Args["mode"].(string)
	mode, err := vector.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	var tokenize vector.Tokenizer
	if boolArg(p, "stem", false) {
		tokenize = r.svc.Analyzer.Terms
	}

	result, err := vector.Vectorize(docs, mode, tokenize)
	if err != nil {
		return nil, fmt.Errorf("vectorize failed: %w", err)
	}

	var matrix any = result.Counts
	if mode == vector.ModeTfidf {
		matrix = result.Weights
	}
	return map[string]any{
		"mode":     string(result.Mode),
		"features": result.Features,
		"matrix":   matrix,
	}, nil
}

// Search resolves the search query
func (r *Resolver) Search(p graphql.ResolveParams) (any, error) {
	if r.svc.Store == nil {
		return nil, ErrCorpusDisabled
	}
	query, _ := p.Args["query"].(string)
	limit, _ := p.Args["limit"].(int)
	if limit <= 0 {
		limit = 10
	}

	hits, err := r.svc.Store.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]map[string]any, len(hits))
	for i, hit := range hits {
		results[i] = map[string]any{
			"id":       hit.ID,
			"score":    hit.Score,
			"document": documentMap(hit.Document),
		}
	}
	return results, nil
}

// Document resolves the document query. A missing id resolves to null.
func (r *Resolver) Document(p graphql.ResolveParams) (any, error) {
	if r.svc.Store == nil {
		return nil, ErrCorpusDisabled
	}
	id, _ := p.Args["id"].(string)

	doc, err := r.svc.Store.Get(id)
	if errors.Is(err, corpus.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return documentMap(doc), nil
}

// AddDocument resolves the addDocument mutation
func (r *Resolver) AddDocument(p graphql.ResolveParams) (any, error) {
	if r.svc.Store == nil {
		return nil, ErrCorpusDisabled
	}
	id, _ := p.Args["id"].(string)
	body, _ := p.Args["text"].(string)

	doc, err := r.svc.Store.Add(id, body)
	if err != nil {
		return nil, fmt.Errorf("add document failed: %w", err)
	}
	return documentMap(doc), nil
}

// DeleteDocument resolves the deleteDocument mutation
func (r *Resolver) DeleteDocument(p graphql.ResolveParams) (any, error) {
	if r.svc.Store == nil {
		return nil, ErrCorpusDisabled
	}
	id, _ := p.Args["id"].(string)

	if err := r.svc.Store.Delete(id); err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			return false, nil
		}
		return nil, err
	}
	return true, nil
}
