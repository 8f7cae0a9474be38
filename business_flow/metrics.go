package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Verdicts partitioned by outcome (spam, clean)
	spamVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spam_verifications_total",
			Help: "Total number of spam verifications by result",
		},
		[]string{"result"},
	)

	// Routing hook answers partitioned by action (redirect, allow)
	routeDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_decisions_total",
			Help: "Total number of routing decisions by action",
		},
		[]string{"action"},
	)

	spamNumbersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spam_numbers_registered_total",
			Help: "Total number of numbers flagged as spam",
		},
	)

	spamNumbersUnregisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spam_numbers_unregistered_total",
			Help: "Total number of numbers removed from the spam registry",
		},
	)

	callEventsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "call_events_recorded_total",
			Help: "Total number of call events appended to the event log",
		},
	)
)
