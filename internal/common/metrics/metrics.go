// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiqa_queries_total",
			Help: "Total number of queries answered, by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wikiqa_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	StageDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiqa_stage_degradations_total",
			Help: "Per-item failures absorbed by a pipeline stage",
		},
		[]string{"stage", "error_code"},
	)

	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiqa_source_requests_total",
			Help: "Requests issued to the document source, by operation",
		},
		[]string{"operation", "status"},
	)

	QueriesInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wikiqa_queries_in_flight",
			Help: "Number of queries currently being answered",
		},
		[]string{"endpoint"},
	)
)
