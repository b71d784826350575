package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_submitted_total",
			Help: "Total number of crowd reports submitted by reported level",
		},
		[]string{"crowd_level"},
	)

	statusApplyFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "report_status_apply_failures_total",
			Help: "Total number of failed live-status writes triggered by reports",
		},
	)
)

func recordReportSubmitted(level string) {
	reportsSubmittedTotal.WithLabelValues(level).Inc()
}

func recordStatusApplyFailure() {
	statusApplyFailuresTotal.Inc()
}
