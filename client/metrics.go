package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncPushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roadmap_client",
			Name:      "sync_pushes_total",
			Help:      "Pushes attempted by the sync session, by outcome.",
		},
		[]string{"outcome"}, // success | conflict | error
	)

	syncPullsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roadmap_client",
			Name:      "sync_pulls_total",
			Help:      "Pulls attempted by the sync session, by outcome.",
		},
		[]string{"outcome"}, // updated | noop | error
	)

	syncTicksSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roadmap_client",
			Name:      "sync_ticks_skipped_total",
			Help:      "Periodic pusher ticks skipped because a sync was in flight.",
		},
	)
)
