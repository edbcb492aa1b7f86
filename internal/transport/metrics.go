package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "requests_total",
			Help:      "HTTP attempts issued, including retries.",
		},
		[]string{"method"},
	)

	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "request_retries_total",
			Help:      "Attempts beyond the first for a logical request.",
		},
		[]string{"method"},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "request_failures_total",
			Help:      "Requests that settled in failure, by classified kind.",
		},
		[]string{"kind"},
	)

	tokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "viva_sync",
			Name:      "token_refresh_total",
			Help:      "Refresh-token exchanges by outcome.",
		},
		[]string{"outcome"},
	)
)
