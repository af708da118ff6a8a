package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values shared by the outcome counters.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeLimited  = "limited"
)

// HTTP metrics for the local API.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vlogit_http_requests_total",
			Help: "Total number of local API requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vlogit_http_request_duration_seconds",
			Help:    "Local API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Domain metrics.
var (
	PostsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vlogit_posts_published_total",
			Help: "Posts persisted on this device",
		},
	)

	HydrationMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vlogit_hydration_misses_total",
			Help: "Posts returned without a playable reference",
		},
		[]string{"kind"},
	)

	AIFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vlogit_ai_fallbacks_total",
			Help: "Generative calls replaced by a static fallback",
		},
		[]string{"call"},
	)

	FriendAdds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vlogit_friend_adds_total",
			Help: "Friend code lookups by outcome",
		},
		[]string{"outcome"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vlogit_login_attempts_total",
			Help: "Credential checks by outcome",
		},
		[]string{"method", "outcome"},
	)
)
