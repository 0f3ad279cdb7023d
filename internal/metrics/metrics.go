// Package metrics exposes Prometheus instrumentation for sorting and the
// identifier index.
//
// SortMetrics implements sortsupport.Observer and StoreMetrics implements
// the pebble store's MetricsHook, so both can be handed straight to those
// components.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dcbickfo/pg-ulid/pkg/ulid/sortsupport"
)

const namespace = "ulid"

// SortMetrics records abbreviation decisions and sort outcomes.
type SortMetrics struct {
	decisions       *prometheus.CounterVec
	lastCardinality prometheus.Gauge
	sorts           *prometheus.CounterVec
	sortedValues    prometheus.Counter
	fullComparisons prometheus.Counter
}

// NewSortMetrics creates and registers the sort collectors on reg.
func NewSortMetrics(reg prometheus.Registerer) *SortMetrics {
	m := &SortMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "abbrev_checks_total",
			Help:      "Evaluated abbreviation abort checks by resulting state.",
		}, []string{"state"}),
		lastCardinality: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "abbrev_last_cardinality",
			Help:      "Distinct abbreviated-key estimate at the most recent check.",
		}),
		sorts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "completed_total",
			Help:      "Completed sorts by final abbreviation state.",
		}, []string{"state"}),
		sortedValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "values_total",
			Help:      "Values sorted.",
		}),
		fullComparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sort",
			Name:      "full_comparisons_total",
			Help:      "Comparisons that needed the full 16-byte comparator.",
		}),
	}
	reg.MustRegister(m.decisions, m.lastCardinality, m.sorts, m.sortedValues, m.fullComparisons)
	return m
}

// ObserveDecision implements sortsupport.Observer.
func (m *SortMetrics) ObserveDecision(state sortsupport.State, cardinality float64, _ int64, _ int) {
	m.decisions.WithLabelValues(state.String()).Inc()
	m.lastCardinality.Set(cardinality)
}

// ObserveResult records a finished sort.
func (m *SortMetrics) ObserveResult(res sortsupport.Result) {
	state := res.State.String()
	if !res.Abbreviated {
		state = "disabled"
	}
	m.sorts.WithLabelValues(state).Inc()
	m.sortedValues.Add(float64(len(res.IDs)))
	m.fullComparisons.Add(float64(res.FullComparisons))
}

// StoreMetrics records index storage latencies and sizes.
type StoreMetrics struct {
	latency *prometheus.HistogramVec
	bytes   *prometheus.CounterVec
}

// NewStoreMetrics creates and registers the storage collectors on reg.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "op_duration_seconds",
			Help:      "Index storage operation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"op"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "bytes_total",
			Help:      "Bytes moved by index storage operations.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.latency, m.bytes)
	return m
}

func (m *StoreMetrics) observe(op string, elapsed time.Duration, n int) {
	m.latency.WithLabelValues(op).Observe(elapsed.Seconds())
	m.bytes.WithLabelValues(op).Add(float64(n))
}

func (m *StoreMetrics) ObserveWrite(elapsed time.Duration, bytes int) {
	m.observe("write", elapsed, bytes)
}

func (m *StoreMetrics) ObserveRead(elapsed time.Duration, bytes int) {
	m.observe("read", elapsed, bytes)
}

func (m *StoreMetrics) ObserveBatchCommit(elapsed time.Duration, _ int, bytes int) {
	m.observe("commit", elapsed, bytes)
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
