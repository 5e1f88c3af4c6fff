// Package middleware provides cross-cutting concerns for the matching engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/acampos/votematch/internal/ports"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It provides real-time monitoring of scoring throughput, answer rejection
// rates, and match score distributions for the matching engine.
type PrometheusMetrics struct {
	scoringLatency   *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	matchScores      *prometheus.HistogramVec
	catalogGauges    *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics in the global Prometheus registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		scoringLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "votematch_scoring_duration_seconds",
				Help:    "Execution time of scoring operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "strategy"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "votematch_operations_total",
				Help: "Total number of operations performed by the matching engine.",
			},
			[]string{"operation", "status", "strategy"},
		),
		matchScores: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "votematch_match_score",
				Help:    "Distribution of winning candidate match scores.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"strategy"},
		),
		catalogGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "votematch_catalog_state",
				Help: "Current catalog state values (question, section, candidate counts).",
			},
			[]string{"metric", "strategy"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.scoringLatency.WithLabelValues(operation, strategyLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. Rejection counters are routed to a dedicated
// status so dashboards can alert on rejection rate directly.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	strategy := strategyLabel(labels)

	switch metric {
	case "answers_rejected_total":
		pm.operationCounter.WithLabelValues("score", "rejected", strategy).Add(value)
	case "score_requests_total":
		status, ok := labels["status"]
		if !ok {
			status = "success"
		}
		pm.operationCounter.WithLabelValues("score", status, strategy).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, "success", strategy).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.catalogGauges.WithLabelValues(metric, strategyLabel(labels)).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram. Match scores get their own 0-100
// bucket layout; everything else lands in the latency histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	strategy := strategyLabel(labels)

	if metric == "match_score" {
		pm.matchScores.WithLabelValues(strategy).Observe(value)
		return
	}
	pm.scoringLatency.WithLabelValues(metric, strategy).Observe(value)
}

func strategyLabel(labels map[string]string) string {
	if strategy, ok := labels["strategy"]; ok && strategy != "" {
		return strategy
	}
	return "unknown"
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
