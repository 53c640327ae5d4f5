// Package metrics defines and registers all custom Prometheus metrics for
// the collaboration portal API. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them through the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Invitation metrics ────────────────────────────────────────────────────────

// InvitationsCreatedTotal counts email invitations created.
// Labels:
//   - group: the group the invitee would join ("consulting" or "client")
var InvitationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_created_total",
		Help:      "Total number of email invitations created, by target group.",
	},
	[]string{"group"},
)

// LinksGeneratedTotal counts shareable invite links generated.
// Labels:
//   - role: the role the link grants on acceptance
var LinksGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_links_generated_total",
		Help:      "Total number of invite links generated, by granted role.",
	},
	[]string{"role"},
)

// LinksAcceptedTotal counts successful single-use link redemptions.
var LinksAcceptedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_links_accepted_total",
		Help:      "Total number of invite links successfully redeemed.",
	},
)

// LinkRedemptionsDeniedTotal counts failed redemption attempts.
// Label:
//   - reason: "not_found", "already_used", "revoked", "expired", "already_member", "other"
var LinkRedemptionsDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_link_redemptions_denied_total",
		Help:      "Total number of invite link redemptions denied, by reason.",
	},
	[]string{"reason"},
)

// ── Permission metrics ────────────────────────────────────────────────────────

// PermissionCacheTotal counts permission cache decisions.
// Label:
//   - result: "hit" (served from Redis) or "miss" (resolved from MongoDB)
var PermissionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_total",
		Help:      "Total number of permission cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Activity log metrics ──────────────────────────────────────────────────────

// ActivityEmittedTotal counts entries handed to the activity emitter.
var ActivityEmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_entries_emitted_total",
		Help:      "Total number of activity entries submitted to the emitter.",
	},
)

// ActivityDroppedTotal counts entries dropped because a worker buffer was
// full. The log is best-effort; drops are expected under saturation.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_entries_dropped_total",
		Help:      "Total number of activity entries dropped due to full worker buffers.",
	},
)

// ActivityWriteFailuresTotal counts store writes that failed after dequeue.
var ActivityWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_write_failures_total",
		Help:      "Total number of activity entries that failed to persist.",
	},
)

// ActivityQueueDepth tracks entries waiting in each emitter worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each emitter worker channel.",
	},
	[]string{"worker_id"},
)
