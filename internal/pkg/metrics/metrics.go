// Package metrics defines and registers all custom Prometheus metrics for the
// expense API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense"

// ── Expense metrics ───────────────────────────────────────────────────────────

// ExpensesCreatedTotal counts newly created expenses.
// Label:
//   - category: the expense category (e.g. "travel", "meals")
var ExpensesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Total number of expenses created, by category.",
	},
	[]string{"category"},
)

// DecisionsTotal counts approve/reject decisions that were recorded.
// Label:
//   - action: "approve" or "reject"
var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of approval decisions recorded, by action.",
	},
	[]string{"action"},
)

// ExportsTotal counts generated exports.
// Label:
//   - format: "json" or "csv"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of expense exports generated, by format.",
	},
	[]string{"format"},
)

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// StatsCacheTotal counts dashboard stats cache lookups.
// Label:
//   - result: "hit", "miss" or "error", or "stale" when a computed result was
//     discarded because the cache was invalidated while it was computed
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of dashboard stats cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts expense events handed to the publisher.
// Labels:
//   - type: the event type (e.g. "expense.approved")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of expense events published, by type and result.",
	},
	[]string{"type", "result"},
)

// EventsDroppedTotal counts events discarded because a worker channel was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of expense events dropped on a full dispatcher queue.",
	},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long a single publish takes.
// Label:
//   - type: the event type
var EventPublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of a single expense event publish.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
