// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// GateDecisions counts communication-gate check outcomes by channel and result.
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_gate_decisions_total",
		Help: "Total communication gate decisions by channel and result",
	}, []string{"channel", "result"})

	// CascadeDuration records subscription cascade latency by direction.
	CascadeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kindred_subscription_cascade_duration_seconds",
		Help:    "Duration of subscription level cascades",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})

	// CascadeFriendshipsTouched counts friendship rows rewritten by cascades.
	CascadeFriendshipsTouched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_subscription_cascade_friendships_total",
		Help: "Total friendships rewritten by subscription cascades",
	}, []string{"direction"})

	// CacheLookups counts cache read-through lookups by entity and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kindred_cache_lookups_total",
		Help: "Total cache lookups by entity and outcome (hit/miss)",
	}, []string{"entity", "outcome"})
)

// RecordGateDecision increments the gate decision counter.
func RecordGateDecision(channel string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	GateDecisions.WithLabelValues(channel, result).Inc()
}

// TrackCascade returns a function recording cascade duration when called (e.g. defer).
func TrackCascade(direction string) func(touched int) {
	start := time.Now()
	return func(touched int) {
		CascadeDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
		CascadeFriendshipsTouched.WithLabelValues(direction).Add(float64(touched))
	}
}
