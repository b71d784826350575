package place

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	placesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_created_total",
			Help: "Total number of places registered by category",
		},
		[]string{"category"},
	)

	statusUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "place_status_updates_total",
			Help: "Total number of live status updates applied to places",
		},
	)

	refresherTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "place_refresher_ticks_total",
			Help: "Total number of status refresher runs",
		},
	)
)

func recordPlaceCreated(category string) {
	placesCreatedTotal.WithLabelValues(category).Inc()
}

func recordStatusUpdate() {
	statusUpdatesTotal.Inc()
}

func recordRefresherTick() {
	refresherTicksTotal.Inc()
}
