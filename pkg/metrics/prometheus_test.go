package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPrometheusExporter(t *testing.T) {
	mc := NewCollector()
	mc.RecordWords(3, 1)
	mc.Record(OpStem, 2*time.Millisecond, true)
	mc.Record(OpStem, 2*time.Second, false)

	var buf bytes.Buffer
	if err := NewPrometheusExporter(mc).WriteMetrics(&buf); err != nil {
		t.Fatalf("WriteMetrics failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# TYPE laura_stem_uptime_seconds gauge",
		"laura_stem_words_stemmed_total 3",
		"laura_stem_corrections_applied_total 1",
		"laura_stem_stem_requests_total 2",
		"laura_stem_stem_requests_failed_total 1",
		"# TYPE laura_stem_stem_duration_seconds histogram",
		`laura_stem_stem_duration_seconds_bucket{le="0.001"} 0`,
		`laura_stem_stem_duration_seconds_bucket{le="0.01"} 1`,
		`laura_stem_stem_duration_seconds_bucket{le="1.0"} 1`,
		`laura_stem_stem_duration_seconds_bucket{le="+Inf"} 2`,
		"laura_stem_stem_duration_seconds_count 2",
		"laura_stem_stem_duration_seconds_p99",
		"laura_stem_search_requests_total 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestPrometheusNamespace(t *testing.T) {
	pe := NewPrometheusExporter(NewCollector())
	pe.SetNamespace("custom")

	var buf bytes.Buffer
	if err := pe.WriteMetrics(&buf); err != nil {
		t.Fatalf("WriteMetrics failed: %v", err)
	}
	if !strings.Contains(buf.String(), "custom_words_stemmed_total 0") {
		t.Error("Expected custom namespace")
	}
	if strings.Contains(buf.String(), "laura_stem_") {
		t.Error("Expected default namespace to be replaced")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestPrometheusWriteError(t *testing.T) {
	if err := NewPrometheusExporter(NewCollector()).WriteMetrics(failingWriter{}); err == nil {
		t.Error("Expected write error")
	}
}
