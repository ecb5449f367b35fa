package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "search_source_queries_total",
			Help:      "Total queries issued per search source",
		},
		[]string{"source", "status"},
	)

	sourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herald",
			Name:      "search_source_duration_seconds",
			Help:      "Duration of per-source search calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	sourceResultsCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herald",
			Name:      "search_source_results_count",
			Help:      "Number of results returned per source query",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10, 15, 20},
		},
		[]string{"source"},
	)

	articleExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "article_extractions_total",
			Help:      "Total article content extraction attempts",
		},
		[]string{"status"},
	)
)
