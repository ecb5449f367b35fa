package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "runs_total",
			Help:      "Total pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "herald",
			Name:      "run_duration_seconds",
			Help:      "Duration of publish runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1h
		},
	)

	postsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "posts_published_total",
			Help:      "Total posts pushed to LinkedIn",
		},
		[]string{"verified"},
	)
)
