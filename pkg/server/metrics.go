package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	routeDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_route_decisions_total",
		Help: "Routing decisions by method (model, fallback) and match outcome.",
	}, []string{"method", "matched"})

	routeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_route_failures_total",
		Help: "Queries that could not be routed at all.",
	})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_dispatch_duration_seconds",
		Help:    "Dispatch round-trip duration by outcome (ok, error).",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	discoveredAgents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_discovered_agents",
		Help: "Number of agents in the live descriptor snapshot.",
	})
)
