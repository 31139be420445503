// Package metrics defines and registers all custom Prometheus metrics for
// the settings portal. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the default
// registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Data-load metrics ─────────────────────────────────────────────────────────

// DataLoadsTotal counts bulk-loader runs.
// Label:
//   - result: "ok", "error" (critical table failed), or "skipped" (a load
//     was already in flight)
var DataLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "data_loads_total",
		Help:      "Total number of bulk data loads, labelled by result.",
	},
	[]string{"result"},
)

// FetchRetriesTotal counts individual table-fetch retries.
// Label:
//   - table: the backend table being fetched
var FetchRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_retries_total",
		Help:      "Total number of table fetch retries after a timeout or error.",
	},
	[]string{"table"},
)

// FetchFailuresTotal counts table fetches that exhausted all attempts.
// Labels:
//   - table: the backend table
//   - critical: "true" when the failure surfaces the load-error banner
var FetchFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Total number of table fetches that failed after all retries.",
	},
	[]string{"table", "critical"},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts successful write operations against the gateway.
// Labels:
//   - entity: "setting", "field", "category", "feedback", "app_config", "profile", "history"
//   - action: "create", "update", "delete"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful entity mutations, by entity and action.",
	},
	[]string{"entity", "action"},
)

// VotesRecordedTotal counts accepted "mark as working" votes.
var VotesRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_recorded_total",
		Help:      "Total number of accepted working votes.",
	},
)

// VotesRejectedTotal counts votes rejected before any remote call.
// Label:
//   - reason: "login_required" or "cooldown"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of votes rejected client-side, by reason.",
	},
	[]string{"reason"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// ForcedLogoutsTotal counts sessions terminated by the reconciler.
// Label:
//   - reason: "pending_profile", "expired", "invalid_session"
var ForcedLogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of forced logouts, by reason.",
	},
	[]string{"reason"},
)
