package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnohosten/laura-stem/pkg/metrics"
	"github.com/mnohosten/laura-stem/pkg/text"
	"github.com/mnohosten/laura-stem/pkg/vector"
)

// AnalyzeRequest is the body of POST /_analyze
type AnalyzeRequest struct {
	Text    string `json:"text"`
	Correct *bool  `json:"correct,omitempty"`
}

// VectorizeRequest is the body of POST /_vectorize
type VectorizeRequest struct {
	Documents []string `json:"documents"`
	Mode      string   `json:"mode"`
	Stem      bool     `json:"stem"`
}

// analyzerFor returns the shared analyzer, or a copy with corrections toggled
// when the request asks for something else.
func (h *Handlers) analyzerFor(correct *bool) *text.Analyzer {
	if correct == nil {
		return h.analyzer
	}
	return h.analyzer.WithCorrectionsEnabled(*correct)
}

// Analyze handles POST /_analyze
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var err error
	done := h.metrics.Time(metrics.OpAnalyze)
	defer func() { done(&err) }()

	var req AnalyzeRequest
	if err = parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tokens := h.analyzerFor(req.Correct).Analyze(req.Text)
	h.metrics.RecordWords(len(tokens), 0)

	writeSuccessWithCount(w, tokens, len(tokens))
}

// Compare handles GET /_compare/{word}
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	var err error
	done := h.metrics.Time(metrics.OpCompare)
	defer func() { done(&err) }()

	if h.comparer == nil {
		err = &UnavailableError{Feature: "compare"}
		writeError(w, err)
		return
	}

	word := chi.URLParam(r, "word")
	if word == "" {
		err = &BadRequestError{Message: "word is required"}
		writeError(w, err)
		return
	}

	writeSuccess(w, h.comparer.Compare(word))
}

// Vectorize handles POST /_vectorize
func (h *Handlers) Vectorize(w http.ResponseWriter, r *http.Request) {
	var err error
	done := h.metrics.Time(metrics.OpVectorize)
	defer func() { done(&err) }()

	var req VectorizeRequest
	if err = parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	mode, err := vector.ParseMode(req.Mode)
	if err != nil {
		err = &BadRequestError{Message: err.Error()}
		writeError(w, err)
		return
	}

	var tokenize vector.Tokenizer
	if req.Stem {
		tokenize = h.analyzer.Terms
	}

	result, err := vector.Vectorize(req.Documents, mode, tokenize)
	if err != nil {
		err = storeError(err, "")
		writeError(w, err)
		return
	}

	writeSuccess(w, result)
}
