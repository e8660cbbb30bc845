// Package metrics defines and registers the custom Prometheus metrics of the
// back-office gateway. It is the single source of truth for metric names,
// labels and help strings.
//
// Metrics register with the default registry on package init (promauto), so
// importing the package is enough; /metrics serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Token refresh ─────────────────────────────────────────────────────────────

// RefreshTotal counts refresh flights by outcome.
// Label:
//   - result: "success", "failure", "reused" (token already rotated by an
//     earlier flight), "demo_skipped"
var RefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh outcomes.",
	},
	[]string{"result"},
)

// RefreshCoalescedTotal counts 401s that joined a refresh already in flight.
var RefreshCoalescedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_coalesced_total",
		Help:      "Total number of requests that shared an in-flight refresh.",
	},
)

// RefreshDuration measures the refresh endpoint round trip.
var RefreshDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "token_refresh_duration_seconds",
		Help:      "Duration of calls to the refresh endpoint.",
		Buckets:   prometheus.DefBuckets,
	},
)

// RetriesTotal counts replays of an original request after a refresh.
// Label:
//   - status: HTTP status class of the replay ("2xx", "4xx", "5xx", "error")
var RetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_retries_total",
		Help:      "Total number of requests replayed after a token refresh.",
	},
	[]string{"status"},
)

// ── Session ───────────────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Labels:
//   - operation: "login", "register", "logout", "resume", "teardown"
//   - status: the resulting session status
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions.",
	},
	[]string{"operation", "status"},
)

// ── Authorization ─────────────────────────────────────────────────────────────

// NavigationDecisionsTotal counts route guard decisions.
// Label:
//   - outcome: "allow", "pending", "redirect_login", "redirect_unauthorized", "not_found"
var NavigationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigation_decisions_total",
		Help:      "Total number of navigation guard decisions, by outcome.",
	},
	[]string{"outcome"},
)
