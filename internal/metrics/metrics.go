// PlatePick - Restaurant Recommendations with Travel-Time Scoring
// Copyright 2026 PlatePick Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/platepick/platepick

// Package metrics registers the Prometheus instrumentation for PlatePick:
// HTTP handler latency, upstream provider calls, circuit breaker state,
// store operations and scoring batches. All collectors are registered on the
// default registry via promauto and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks API endpoint latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platepick_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks concurrently served requests.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "platepick_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// UpstreamRequestDuration tracks calls to the place search and travel
	// time providers, labeled by pipeline stage (search, details, durations).
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platepick_upstream_request_duration_seconds",
			Help:    "Duration of upstream provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage", "status"},
	)

	// CircuitBreakerState reports breaker state per upstream
	// (0 = closed, 1 = half-open, 2 = open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "platepick_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state transitions.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platepick_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// StoreOperations counts persistent store operations.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platepick_store_operations_total",
			Help: "Total number of persistent store operations",
		},
		[]string{"operation", "kind", "status"},
	)

	// ScoredBatchSize observes how many candidate places each scoring
	// round processed.
	ScoredBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "platepick_scored_batch_size",
			Help:    "Number of candidate places per scoring batch",
			Buckets: []float64{1, 5, 10, 20, 40, 60, 100},
		},
	)

	// FeedbackRecordsWritten counts feedback records persisted per outcome.
	FeedbackRecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platepick_feedback_records_written_total",
			Help: "Total number of feedback records written",
		},
		[]string{"chosen"},
	)
)
