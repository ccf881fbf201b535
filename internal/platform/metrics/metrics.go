package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the raffle round lifecycle.
var (
	AdmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_admissions_total",
		Help: "Number of accepted raffle entries.",
	})
	AdmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raffle_admissions_rejected_total",
		Help: "Number of rejected raffle entries by reason.",
	}, []string{"reason"})
	SettlementsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_settlements_started_total",
		Help: "Number of randomness requests issued.",
	})
	SettlementsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_settlements_completed_total",
		Help: "Number of rounds settled and paid out.",
	})
	CallbacksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_callbacks_rejected_total",
		Help: "Number of oracle callbacks rejected as unknown or replayed.",
	})
	PayoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raffle_payout_failures_total",
		Help: "Number of failed winner disbursements.",
	})
)
