package nudge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nudgesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nudge_nudges_total",
			Help: "Total number of nudges created",
		},
	)

	mutualNudgesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nudge_mutual_nudges_total",
			Help: "Total number of nudge exchanges that became mutual",
		},
	)
)

func RecordNudge() {
	nudgesTotal.Inc()
}

func RecordMutualNudge() {
	mutualNudgesTotal.Inc()
}
