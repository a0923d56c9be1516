package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mnohosten/laura-stem/pkg/metrics"
	"github.com/mnohosten/laura-stem/pkg/vector"
)

// AddDocumentRequest is the body of POST /_docs
type AddDocumentRequest struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// SearchRequest is the body of POST /_search
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (h *Handlers) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		writeError(w, &UnavailableError{Feature: "corpus"})
		return false
	}
	return true
}

// AddDocument handles POST /_docs
func (h *Handlers) AddDocument(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireStore(w) {
		return
	}

	var req AddDocumentRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc, err := h.store.Add(req.ID, req.Text)
	h.metrics.Record(metrics.OpDocument, time.Since(start), err == nil)
	if err != nil {
		writeError(w, storeError(err, req.ID))
		return
	}
	h.metrics.RecordDocumentAdded()
	h.logger.Debug("document indexed", "id", doc.ID)

	writeSuccessStatus(w, http.StatusCreated, doc)
}

// ListDocuments handles GET /_docs
func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	docs, err := h.store.List()
	if err != nil {
		writeError(w, storeError(err, ""))
		return
	}

	writeSuccessWithCount(w, docs, len(docs))
}

// GetDocument handles GET /_docs/{id}
func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	id := chi.URLParam(r, "id")
	doc, err := h.store.Get(id)
	if err != nil {
		writeError(w, storeError(err, id))
		return
	}

	writeSuccess(w, doc)
}

// DeleteDocument handles DELETE /_docs/{id}
func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireStore(w) {
		return
	}

	id := chi.URLParam(r, "id")
	err := h.store.Delete(id)
	h.metrics.Record(metrics.OpDocument, time.Since(start), err == nil)
	if err != nil {
		writeError(w, storeError(err, id))
		return
	}
	h.metrics.RecordDocumentDeleted()

	writeSuccess(w, map[string]any{"deleted": id})
}

// Search handles POST /_search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var err error
	done := h.metrics.Time(metrics.OpSearch)
	defer func() { done(&err) }()

	if !h.requireStore(w) {
		return
	}

	var req SearchRequest
	if err = parseJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Query == "" {
		err = &BadRequestError{Message: "query is required"}
		writeError(w, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	hits, err := h.store.Search(req.Query, req.Limit)
	if err != nil {
		err = storeError(err, "")
		writeError(w, err)
		return
	}

	writeSuccessWithCount(w, hits, len(hits))
}

// DocumentVectors handles GET /_docs/_vectors
func (h *Handlers) DocumentVectors(w http.ResponseWriter, r *http.Request) {
	var err error
	done := h.metrics.Time(metrics.OpVectorize)
	defer func() { done(&err) }()

	if !h.requireStore(w) {
		return
	}

	mode, err := vector.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		err = &BadRequestError{Message: err.Error()}
		writeError(w, err)
		return
	}

	vectors, err := h.store.Vectorize(mode)
	if err != nil {
		err = storeError(err, "")
		writeError(w, err)
		return
	}

	writeSuccess(w, vectors)
}
