package crowd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crowd_predictions_total",
			Help: "Total number of crowd predictions by predicted level",
		},
		[]string{"level"},
	)

	predictionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crowd_prediction_confidence",
			Help:    "Distribution of prediction confidence values",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	historyUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crowd_history_updates_total",
			Help: "Total number of historical pattern rebuilds",
		},
	)
)

func observePrediction(level CrowdLevel, confidence float64) {
	predictionsTotal.WithLabelValues(string(level)).Inc()
	predictionConfidence.Observe(confidence)
}

func recordHistoryUpdate() {
	historyUpdatesTotal.Inc()
}
