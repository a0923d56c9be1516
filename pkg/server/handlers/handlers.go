package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mnohosten/laura-stem/pkg/compare"
	"github.com/mnohosten/laura-stem/pkg/corpus"
	"github.com/mnohosten/laura-stem/pkg/metrics"
	"github.com/mnohosten/laura-stem/pkg/stemmer"
	"github.com/mnohosten/laura-stem/pkg/text"
	"github.com/mnohosten/laura-stem/pkg/vector"
)

// Options wires the handlers to their collaborators. Store and Comparer may
// be nil; the endpoints that need them answer 503.
type Options struct {
	Analyzer      *text.Analyzer
	Store         *corpus.Store
	Comparer      *compare.Comparer
	Metrics       *metrics.Collector
	Batch         *stemmer.BatchOptions
	MaxBatchWords int
	// MaxRequestSize caps websocket frames; zero leaves them unbounded.
	MaxRequestSize int64
	Logger         *slog.Logger
}

// Handlers provides the HTTP handlers of the stemming service
type Handlers struct {
	analyzer       *text.Analyzer
	store          *corpus.Store
	comparer       *compare.Comparer
	metrics        *metrics.Collector
	batch          *stemmer.BatchOptions
	maxBatchWords  int
	maxRequestSize int64
	logger         *slog.Logger
}

// New creates a new Handlers instance
func New(opts Options) *Handlers {
	h := &Handlers{
		analyzer:       opts.Analyzer,
		store:          opts.Store,
		comparer:       opts.Comparer,
		metrics:        opts.Metrics,
		batch:          opts.Batch,
		maxBatchWords:  opts.MaxBatchWords,
		maxRequestSize: opts.MaxRequestSize,
		logger:         opts.Logger,
	}
	if h.analyzer == nil {
		h.analyzer = text.NewAnalyzer()
	}
	if h.metrics == nil {
		h.metrics = metrics.NewCollector()
	}
	if h.batch == nil {
		h.batch = stemmer.DefaultBatchOptions()
	}
	if h.maxBatchWords <= 0 {
		h.maxBatchWords = 100000
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h
}

// parseJSONBody parses JSON request body into target
func parseJSONBody(r *http.Request, target any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return &BadRequestError{Message: "failed to read request body"}
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return &BadRequestError{Message: "request body is empty"}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &BadRequestError{Message: "invalid JSON: " + err.Error()}
	}

	return nil
}

// Error types for consistent error handling

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found: " + e.ID
}

type UnavailableError struct {
	Feature string
}

func (e *UnavailableError) Error() string {
	return e.Feature + " is not enabled on this server"
}

type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}

// storeError maps corpus and vectorizer errors onto handler errors.
func storeError(err error, id string) error {
	switch {
	case errors.Is(err, corpus.ErrNotFound):
		return &NotFoundError{Resource: "document", ID: id}
	case errors.Is(err, corpus.ErrEmptyText):
		return &BadRequestError{Message: err.Error()}
	case errors.Is(err, corpus.ErrClosed):
		return &UnavailableError{Feature: "corpus"}
	case errors.Is(err, vector.ErrEmptyVocabulary), errors.Is(err, vector.ErrUnknownMode):
		return &BadRequestError{Message: err.Error()}
	default:
		return &InternalError{Message: err.Error()}
	}
}

// writeError writes an error response with appropriate HTTP status code
func writeError(w http.ResponseWriter, err error) {
	var statusCode int
	var errorType string

	switch err.(type) {
	case *BadRequestError:
		statusCode = http.StatusBadRequest
		errorType = "BadRequest"
	case *NotFoundError:
		statusCode = http.StatusNotFound
		errorType = "NotFound"
	case *UnavailableError:
		statusCode = http.StatusServiceUnavailable
		errorType = "Unavailable"
	default:
		statusCode = http.StatusInternalServerError
		errorType = "InternalError"
	}

	response := map[string]any{
		"ok":      false,
		"error":   errorType,
		"message": err.Error(),
		"code":    statusCode,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeSuccess writes a success response
func writeSuccess(w http.ResponseWriter, result any) {
	writeSuccessStatus(w, http.StatusOK, result)
}

func writeSuccessStatus(w http.ResponseWriter, status int, result any) {
	response := map[string]any{
		"ok":     true,
		"result": result,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// writeSuccessWithCount writes a success response with count
func writeSuccessWithCount(w http.ResponseWriter, result any, count int) {
	response := map[string]any{
		"ok":     true,
		"result": result,
		"count":  count,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
