package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	companionMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_companion_matches_total",
			Help: "Total number of companion matches created",
		},
	)

	discoveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_discoveries_total",
			Help: "Total number of candidate discovery runs by mode",
		},
		[]string{"mode"},
	)
)

func RecordMatchScore(score float64) {
	matchScores.Observe(score)
}

func RecordCompanionMatch() {
	companionMatchesTotal.Inc()
}

func RecordDiscovery(mode string) {
	discoveriesTotal.WithLabelValues(mode).Inc()
}
