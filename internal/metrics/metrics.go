// Package metrics declares the engine's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Remote backend calls
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readrace_remote_requests_total",
			Help: "Remote backend calls by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: ok, rejected, unavailable, breaker_open
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "readrace_remote_request_duration_seconds",
			Help:    "Duration of remote backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "readrace_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Engine state
	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readrace_alerts_raised_total",
			Help: "Alert signals raised by kind",
		},
		[]string{"kind"},
	)

	NotificationsPushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readrace_notifications_pushed_total",
			Help: "Badge toasts pushed into the notification queue",
		},
	)

	NotificationsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readrace_notifications_superseded_total",
			Help: "Badge toasts replaced by a newer one before they were cleared",
		},
	)

	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readrace_xp_awarded_total",
			Help: "Experience points awarded",
		},
	)

	BadgesUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readrace_badges_unlocked_total",
			Help: "Badges unlocked by badge id",
		},
		[]string{"badge"},
	)

	LeaderboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readrace_leaderboard_refreshes_total",
			Help: "Leaderboard refresh attempts by outcome",
		},
		[]string{"outcome"}, // ok, failed
	)
)
