package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DonationIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_donation_intents_total",
		Help: "Donation intents by outcome",
	}, []string{"outcome"})

	GatewayEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_gateway_events_total",
		Help: "Wompi webhook deliveries by reported status and processing outcome",
	}, []string{"status", "outcome"})

	UnmatchedApprovals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levelup_unmatched_approvals_total",
		Help: "APPROVED events whose reference had no donation row",
	})

	ReconcileRuns = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "levelup_reconcile_duration_seconds",
		Help:    "Duration of pending donation sweeps",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
)
