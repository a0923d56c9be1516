package metrics

import (
	"fmt"
	"io"
)

// PrometheusExporter exports metrics in Prometheus text format
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter
func NewPrometheusExporter(collector *Collector) *PrometheusExporter {
	return &PrometheusExporter{
		collector: collector,
		namespace: "laura_stem",
	}
}

// SetNamespace sets the metric name prefix
func (pe *PrometheusExporter) SetNamespace(namespace string) {
	pe.namespace = namespace
}

// WriteMetrics writes all metrics in Prometheus text format to w.
// Format: https://prometheus.io/docs/instrumenting/exposition_formats/
func (pe *PrometheusExporter) WriteMetrics(w io.Writer) error {
	snap := pe.collector.Snapshot()

	gauges := []struct {
		name, help string
		value      float64
	}{
		{"uptime_seconds", "Service uptime in seconds", snap.UptimeSeconds},
		{"websocket_streams_active", "Currently open stem streams", float64(snap.ActiveStreams)},
		{"goroutines", "Number of goroutines", float64(snap.Goroutines)},
		{"heap_in_use_bytes", "Heap memory in use", float64(snap.HeapInUseBytes)},
	}
	for _, g := range gauges {
		if err := pe.writeGauge(w, g.name, g.help, g.value); err != nil {
			return err
		}
	}

	counters := []struct {
		name, help string
		value      uint64
	}{
		{"words_stemmed_total", "Total number of words stemmed", snap.WordsStemmed},
		{"corrections_applied_total", "Total number of stems replaced by the correction table", snap.CorrectionsApplied},
		{"documents_added_total", "Total number of documents stored", snap.DocumentsAdded},
		{"documents_deleted_total", "Total number of documents deleted", snap.DocumentsDeleted},
		{"websocket_streams_total", "Total number of stem streams opened", snap.TotalStreams},
	}
	for _, c := range counters {
		if err := pe.writeCounter(w, c.name, c.help, c.value); err != nil {
			return err
		}
	}

	for _, op := range Operations {
		s, ok := snap.Operations[op]
		if !ok {
			continue
		}
		if err := pe.writeOperation(w, op, s); err != nil {
			return err
		}
	}
	return nil
}

func (pe *PrometheusExporter) writeOperation(w io.Writer, op Operation, s OperationSnapshot) error {
	if err := pe.writeCounter(w, fmt.Sprintf("%s_requests_total", op),
		fmt.Sprintf("Total number of %s requests", op), s.Total); err != nil {
		return err
	}
	if err := pe.writeCounter(w, fmt.Sprintf("%s_requests_failed_total", op),
		fmt.Sprintf("Total number of failed %s requests", op), s.Failed); err != nil {
		return err
	}

	base := fmt.Sprintf("%s_duration_seconds", op)
	if err := pe.writeHistogram(w, base, fmt.Sprintf("%s request duration histogram", op), s.Histogram); err != nil {
		return err
	}
	return pe.writePercentiles(w, base, s.Percentiles)
}

// writeCounter writes a counter metric
func (pe *PrometheusExporter) writeCounter(w io.Writer, name, help string, value uint64) error {
	metricName := pe.namespace + "_" + name
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n",
		metricName, help, metricName, metricName, value)
	return err
}

// writeGauge writes a gauge metric
func (pe *PrometheusExporter) writeGauge(w io.Writer, name, help string, value float64) error {
	metricName := pe.namespace + "_" + name
	_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %g\n",
		metricName, help, metricName, metricName, value)
	return err
}

// writeHistogram writes cumulative bucket counts. The sum is not tracked per
// bucket so only _count is emitted.
func (pe *PrometheusExporter) writeHistogram(w io.Writer, name, help string, buckets [5]uint64) error {
	metricName := pe.namespace + "_" + name

	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", metricName, help, metricName); err != nil {
		return err
	}

	var cumulative uint64
	for i, le := range bucketBounds {
		cumulative += buckets[i]
		if _, err := fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", metricName, le, cumulative); err != nil {
			return err
		}
	}
	cumulative += buckets[len(bucketBounds)]
	if _, err := fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n%s_count %d\n", metricName, cumulative, metricName, cumulative); err != nil {
		return err
	}
	return nil
}

// writePercentiles writes percentile metrics as gauges
func (pe *PrometheusExporter) writePercentiles(w io.Writer, baseName string, p Percentiles) error {
	for _, q := range []struct {
		suffix string
		label  string
		value  float64
	}{
		{"_p50", "50th", p.P50.Seconds()},
		{"_p95", "95th", p.P95.Seconds()},
		{"_p99", "99th", p.P99.Seconds()},
	} {
		if err := pe.writeGauge(w, baseName+q.suffix,
			fmt.Sprintf("%s percentile of %s", q.label, baseName), q.value); err != nil {
			return err
		}
	}
	return nil
}
