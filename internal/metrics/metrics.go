package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters and timings, exposed on /metrics.
var (
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "floatchat",
		Name:      "queries_total",
		Help:      "Processed queries by classified intent.",
	}, []string{"intent"})

	NarrationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "floatchat",
		Name:      "narration_fallbacks_total",
		Help:      "Queries answered with the templated fallback summary.",
	})

	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "floatchat",
		Name:      "query_duration_seconds",
		Help:      "End-to-end query processing time.",
		Buckets:   prometheus.DefBuckets,
	})

	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "floatchat",
		Name:      "dataset_rows",
		Help:      "Rows in the current dataset snapshot.",
	})

	RejectedRows = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "floatchat",
		Name:      "rejected_rows_total",
		Help:      "Rows dropped by validation across loads.",
	})
)
