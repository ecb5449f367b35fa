package compose

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "compose_stage_calls_total",
			Help:      "Total LLM calls per compose stage",
		},
		[]string{"stage", "status"},
	)

	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "herald",
			Name:      "compose_stage_duration_seconds",
			Help:      "Duration of compose stage LLM calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
		},
		[]string{"stage"},
	)

	postLengthChars = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "herald",
			Name:      "compose_post_length_chars",
			Help:      "Length of the composed post body in characters",
			Buckets:   []float64{500, 800, 1100, 1300, 1500, 1700, 2000, 2500},
		},
	)
)
