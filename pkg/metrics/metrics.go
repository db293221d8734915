// Package metrics defines the Prometheus instrumentation exposed by the
// query server: how many queries ran, how long they took, and how big the
// loaded abstraction is.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// QueriesTotal counts FindPath calls, labeled by outcome.
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hpa_queries_total",
			Help: "Total number of FindPath queries served, by outcome",
		},
		[]string{"outcome"}, // "found", "no_path", "error"
	)

	// QueryDurationSeconds tracks FindPath latency.
	QueryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hpa_query_duration_seconds",
			Help:    "FindPath query latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AbstractNodes reports the loaded map's abstract node count.
	AbstractNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hpa_abstract_nodes",
			Help: "Number of AbstractNodes in the loaded map",
		},
	)

	// AbstractEdges reports the loaded map's abstract edge count.
	AbstractEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hpa_abstract_edges",
			Help: "Number of AbstractEdges in the loaded map",
		},
	)
)

func init() {
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDurationSeconds)
	prometheus.MustRegister(AbstractNodes)
	prometheus.MustRegister(AbstractEdges)
}

// Outcome labels for QueriesTotal.
const (
	OutcomeFound  = "found"
	OutcomeNoPath = "no_path"
	OutcomeError  = "error"
)
