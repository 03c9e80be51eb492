// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate metrics: production-grade observability for every gate decision.

var (
	// GateDecisions counts terminal gate outcomes.
	// Labels:
	//   - channel: "api_key", "bearer", "none"
	//   - decision: "allow" or the denial code (e.g., "INVALID_TOKEN")
	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_gate_decisions_total",
			Help: "Total number of gate allow/deny decisions",
		},
		[]string{"channel", "decision"},
	)

	// TokenValidationDuration measures bearer-token verification latency.
	TokenValidationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "phishguard_token_validation_duration_seconds",
			Help: "Duration of JWT validation in seconds",
			// Optimized for HMAC verification latency: 10us to 100ms
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// RateLimitRejections counts requests rejected by the per-key limiter.
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "phishguard_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the per-key rate limiter",
		},
	)

	// AuditEventsEmitted counts audit events handed to the recorder.
	// Labels:
	//   - operation: audited operation name (e.g., "create_report")
	//   - outcome: "success", "failure"
	AuditEventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phishguard_audit_events_total",
			Help: "Total number of audit events emitted",
		},
		[]string{"operation", "outcome"},
	)

	// AuditEventsDropped counts events lost to a full recorder buffer.
	AuditEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "phishguard_audit_events_dropped_total",
			Help: "Total number of audit events dropped due to a full buffer",
		},
	)
)

// Cheap in-process tallies backing the stats endpoint; prometheus counters
// are not readable without gathering the full registry.
var (
	gateAllowed atomic.Int64
	gateDenied  atomic.Int64
)

// RecordGateAllow records an allowed request on the given channel.
func RecordGateAllow(channel string) {
	GateDecisions.WithLabelValues(channel, "allow").Inc()
	gateAllowed.Add(1)
}

// RecordGateDeny records a denial with its error code.
func RecordGateDeny(channel, code string) {
	GateDecisions.WithLabelValues(channel, code).Inc()
	gateDenied.Add(1)
}

// GateDecisionCounts returns the in-process allow/deny tallies.
func GateDecisionCounts() map[string]int64 {
	return map[string]int64{
		"allowed": gateAllowed.Load(),
		"denied":  gateDenied.Load(),
	}
}

// RecordTokenValidation records the duration of a token verification.
func RecordTokenValidation(duration time.Duration) {
	TokenValidationDuration.Observe(duration.Seconds())
}

// RecordRateLimitRejection records a rate-limited request.
func RecordRateLimitRejection() {
	RateLimitRejections.Inc()
}

// RecordAuditEvent records an emitted audit event.
func RecordAuditEvent(operation, outcome string) {
	AuditEventsEmitted.WithLabelValues(operation, outcome).Inc()
}

// RecordAuditEventDropped records a dropped audit event.
func RecordAuditEventDropped() {
	AuditEventsDropped.Inc()
}
