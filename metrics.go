package vivasync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "notifications_total",
			Help:      "User-facing notifications emitted, by level.",
		},
		[]string{"level"},
	)

	waterThresholdsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "water_thresholds_fired_total",
			Help:      "Water-goal threshold notifications fired.",
		},
	)

	summaryBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "summary_builds_total",
			Help:      "Daily summary computations, by completeness of source data.",
		},
		[]string{"outcome"},
	)
)
