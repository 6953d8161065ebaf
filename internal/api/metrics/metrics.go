// Package metrics defines and registers all custom Prometheus metrics for the
// guardrail engine. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import and
// exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guardrail"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsActive tracks the number of in-memory sessions.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Current number of live in-memory sessions.",
	},
)

// ── Decision metrics ──────────────────────────────────────────────────────────

// DecisionsCommittedTotal counts decisions locked at the end of onboarding.
// Label:
//   - role: the profile role the decision was derived from
var DecisionsCommittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_committed_total",
		Help:      "Total number of decisions committed at onboarding, by role.",
	},
	[]string{"role"},
)

// DecisionTransitionsTotal counts lifecycle operations after the first commit.
// Labels:
//   - kind:   "release" or "replace"
//   - result: "ok", "locked" (window still open) or "emotional_lock"
var DecisionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decision_transitions_total",
		Help:      "Total number of decision release/replace attempts, by outcome.",
	},
	[]string{"kind", "result"},
)

// EmotionalLockChangesTotal counts mood check-ins that flipped the emotional lock.
// Label:
//   - state: "active" or "inactive" (the state after the check-in)
var EmotionalLockChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emotional_lock_changes_total",
		Help:      "Total number of mood check-ins that changed the emotional lock.",
	},
	[]string{"state"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TaskTogglesTotal counts task completion toggles.
// Labels:
//   - category:  "execution", "learning" or "health"
//   - completed: "true" when the toggle marked the task done
var TaskTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_toggles_total",
		Help:      "Total number of task toggles, by category and resulting state.",
	},
	[]string{"category", "completed"},
)

// StreakLength observes the streak value after every day rollover.
var StreakLength = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "streak_length_days",
		Help:      "Streak length observed at day rollover.",
		Buckets:   []float64{0, 1, 2, 3, 7, 14, 21, 30, 60},
	},
)

// ── Guide metrics ─────────────────────────────────────────────────────────────

// GuideRequestsTotal counts assistant calls made by the dispatcher.
// Label:
//   - result: "ok", "unavailable" or "cancelled"
var GuideRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guide_requests_total",
		Help:      "Total number of assistant requests, by result.",
	},
	[]string{"result"},
)

// GuideRequestDuration measures assistant round-trip time.
var GuideRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "guide_request_duration_seconds",
		Help:      "Duration of assistant requests from dequeue to reply.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// GuideQueueDepth tracks the number of requests waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var GuideQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "guide_queue_depth",
		Help:      "Current number of guide requests pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
