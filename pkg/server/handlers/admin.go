package handlers

import (
	"net/http"
	"time"
)

// Health returns a health check handler
func (h *Handlers) Health(startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(startTime)
		result := map[string]any{
			"status": "healthy",
			"uptime": uptime.String(),
			"time":   time.Now().Format(time.RFC3339),
		}
		writeSuccess(w, result)
	}
}

// Stats returns service metrics, corpus size and analyzer settings
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	result := map[string]any{
		"metrics": h.metrics.Snapshot(),
		"analyzer": map[string]any{
			"stop_words":  h.analyzer.StopWords().Len(),
			"corrections": h.analyzer.Corrections(),
		},
		"compare_enabled": h.comparer != nil,
	}
	if st, ok := h.analyzer.CacheStats(); ok {
		result["stem_cache"] = st
	}

	if h.store != nil {
		count, err := h.store.Count()
		if err != nil {
			writeError(w, storeError(err, ""))
			return
		}
		result["corpus"] = map[string]any{
			"documents": count,
			"index":     h.store.IndexStats(),
		}
	}

	writeSuccess(w, result)
}
