// Package metrics holds the application counters exported on /api/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "converge"

var (
	ResponsesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feedback",
		Name:      "responses_submitted_total",
		Help:      "Responses stored after a successful batch submission",
	})

	// ResponseBatchesRejected counts submissions refused as a whole, by the
	// first reason found.
	ResponseBatchesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feedback",
		Name:      "batches_rejected_total",
		Help:      "Response batches rejected before any write",
	}, []string{"reason"})

	ResponsesResolvedToggled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feedback",
		Name:      "resolved_toggles_total",
		Help:      "Times a response was marked or unmarked as resolved",
	})

	LocationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "locations",
		Name:      "created_total",
		Help:      "Locations created",
	})

	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "email",
		Name:      "notification_failures_total",
		Help:      "Notification e-mails that could not be sent",
	})
)

// Rejection reasons
const (
	ReasonInvalidItems = "invalid_items"
	ReasonUnknownRoom  = "unknown_room"
	ReasonEmpty        = "empty"
)
