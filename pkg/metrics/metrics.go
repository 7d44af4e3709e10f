// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphOperationsTotal counts service operations by name and outcome.
	// Outcome is "success" or the error kind.
	GraphOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clover",
		Name:      "graph_operations_total",
		Help:      "Total social graph operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// GraphOperationDuration tracks end to end operation latency,
	// including the store round trips.
	GraphOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clover",
		Name:      "graph_operation_duration_seconds",
		Help:      "Social graph operation latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// EventsPublishedTotal counts Kafka event emissions by type and outcome.
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clover",
		Name:      "events_published_total",
		Help:      "Total social events published by event type and outcome",
	}, []string{"event_type", "outcome"})
)
