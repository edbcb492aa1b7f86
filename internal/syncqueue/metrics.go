package syncqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "queue_submissions_total",
			Help:      "Jobs accepted into the sync queue.",
		},
		[]string{"shard"},
	)

	queueFullTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "queue_full_total",
			Help:      "Submissions rejected because a shard was full.",
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "viva_sync",
			Name:      "queue_depth",
			Help:      "Jobs currently buffered per shard.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "viva_sync",
			Name:      "queue_job_duration_seconds",
			Help:      "Wall time of one job attempt.",
		},
		[]string{"shard"},
	)
)

func labelFor(shard int) string { return strconv.Itoa(shard) }
