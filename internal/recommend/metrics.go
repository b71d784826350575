package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	suggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_suggestions_total",
			Help: "Total number of suggestions generated by predicted crowd level",
		},
		[]string{"crowd_level"},
	)

	suggestionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_suggestion_confidence",
			Help:    "Distribution of suggestion confidence values",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_requests_total",
			Help: "Suggestion cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

func observeSuggestion(s *Suggestion) {
	suggestionsTotal.WithLabelValues(string(s.CrowdLevel)).Inc()
	suggestionConfidence.Observe(s.Confidence)
}

func recordCacheLookup(outcome string) {
	cacheHitsTotal.WithLabelValues(outcome).Inc()
}
