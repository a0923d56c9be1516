package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mnohosten/laura-stem/pkg/metrics"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
)

// StemRequest is the body of POST /_stem
type StemRequest struct {
	Words   []string `json:"words"`
	Correct *bool    `json:"correct,omitempty"`
}

// CorrectRequest is the body of POST /_correct
type CorrectRequest struct {
	Original string `json:"original"`
	Stemmed  string `json:"stemmed"`
}

// StemWord handles GET /_stem/{word}
func (h *Handlers) StemWord(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	word := chi.URLParam(r, "word")
	if word == "" {
		h.metrics.Record(metrics.OpStem, time.Since(start), false)
		writeError(w, &BadRequestError{Message: "word is required"})
		return
	}

	stem := stemmer.Stem(word)
	result := map[string]any{
		"word":      word,
		"stem":      stem,
		"corrected": stemmer.Correct(word, stem),
	}

	if trace, _ := strconv.ParseBool(r.URL.Query().Get("trace")); trace {
		result["trace"] = stemmer.TraceStem(word)
	}

	h.metrics.RecordWords(1, boolToInt(stemmer.HasCorrection(word)))
	h.metrics.Record(metrics.OpStem, time.Since(start), true)
	writeSuccess(w, result)
}

// StemBatch handles POST /_stem
func (h *Handlers) StemBatch(w http.ResponseWriter, r *http.Request) {
	var err error
	done := h.metrics.Time(metrics.OpStem)
	defer func() { done(&err) }()

	var req StemRequest
	if err = parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Words) > h.maxBatchWords {
		err = &BadRequestError{Message: "too many words: limit is " + strconv.Itoa(h.maxBatchWords)}
		writeError(w, err)
		return
	}

	results, err := stemmer.StemAll(r.Context(), req.Words, h.batch)
	if err != nil {
		h.logger.Warn("batch stem aborted", "words", len(req.Words), "error", err)
		err = &InternalError{Message: err.Error()}
		writeError(w, err)
		return
	}

	corrected := 0
	for i := range results {
		if req.Correct != nil && !*req.Correct {
			results[i].Corrected = results[i].Stem
		} else if results[i].Corrected != results[i].Stem {
			corrected++
		}
	}
	h.metrics.RecordWords(len(results), corrected)

	writeSuccessWithCount(w, results, len(results))
}

// Correct handles POST /_correct
func (h *Handlers) Correct(w http.ResponseWriter, r *http.Request) {
	var req CorrectRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Original == "" {
		writeError(w, &BadRequestError{Message: "original is required"})
		return
	}

	writeSuccess(w, map[string]any{
		"original":  req.Original,
		"stemmed":   req.Stemmed,
		"corrected": stemmer.Correct(req.Original, req.Stemmed),
		"override":  stemmer.HasCorrection(req.Original),
	})
}

// Corrections handles GET /_corrections
func (h *Handlers) Corrections(w http.ResponseWriter, r *http.Request) {
	table := stemmer.Corrections()
	writeSuccessWithCount(w, table, len(table))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
