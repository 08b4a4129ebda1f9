package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_generations_total",
			Help: "Total number of completed generation passes",
		},
	)

	usersMatchedPerPrompt = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_users_matched_per_prompt",
			Help:    "Distribution of matched user counts per generation pass",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	pairsCommittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_pairs_committed_total",
			Help: "Total number of mutual pairs committed by generation",
		},
	)

	matchListSizes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_list_size",
			Help:    "Distribution of per-user match list lengths",
			Buckets: prometheus.LinearBuckets(1, 1, 3),
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of pairwise compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	revealsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_reveals_total",
			Help: "Total number of successful match reveals",
		},
	)

	validationErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_validation_errors_total",
			Help: "Total number of errors flagged by the mutuality validator",
		},
	)
)

func RecordGeneration(promptID string, matchedUsers int) {
	generationsTotal.Inc()
	usersMatchedPerPrompt.Observe(float64(matchedUsers))
}

func RecordPairCommitted() {
	pairsCommittedTotal.Inc()
}

func RecordUserMatched(listSize int) {
	matchListSizes.Observe(float64(listSize))
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordReveal() {
	revealsTotal.Inc()
}

func RecordValidationErrors(count int) {
	validationErrorsTotal.Add(float64(count))
}
