package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_gateway_dispatches_total",
			Help: "Total number of dispatch requests by outcome",
		},
		[]string{"outcome"}, // admitted, rejected, exhausted, inconsistent
	)

	FallbackCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_gateway_fallbacks_total",
			Help: "Total number of fallback substitutions by trigger",
		},
		[]string{"reason"}, // unresolved, disallowed
	)

	ResolvedModelCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_gateway_resolved_models_total",
			Help: "Dispatches per resolved backend/model pair",
		},
		[]string{"backend", "model"},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_gateway_dispatch_duration_seconds",
			Help:    "Dispatch decision latency in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)
)
