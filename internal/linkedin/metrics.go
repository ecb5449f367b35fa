package linkedin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "login_total",
			Help:      "Total login attempts by method",
		},
		[]string{"method", "outcome"},
	)

	publishStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "herald",
			Name:      "publish_steps_total",
			Help:      "Total publish flow steps reached",
		},
		[]string{"step", "outcome"},
	)
)
