// Package metrics holds every custom Prometheus metric of the Swiftify API.
// Metrics register with the default registry at package init through promauto,
// and are exposed on /metrics next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "swiftify"

// ── Parcel metrics ────────────────────────────────────────────────────────────

// ParcelsCreatedTotal counts scheduled parcels.
// Label:
//   - channel: "public" (schedule form) or "admin" (admin orders)
var ParcelsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parcels_created_total",
		Help:      "Total number of parcels scheduled, by creation channel.",
	},
	[]string{"channel"},
)

// ParcelStatusUpdatesTotal counts status-bearing updates.
// Label:
//   - status: the status string as submitted; unrecognized values are folded into "other"
var ParcelStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "parcel_status_updates_total",
		Help:      "Total number of parcel status updates, by status.",
	},
	[]string{"status"},
)

// ── Storage metrics ───────────────────────────────────────────────────────────

// StoreFallbackTotal counts durable-tier failures absorbed by the local tier.
// Labels:
//   - collection: "parcels" or "contact_messages"
//   - op: "save", "find", "list", "delete", "count"
var StoreFallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_fallback_total",
		Help:      "Durable store operations that failed and were served by the local tier.",
	},
	[]string{"collection", "op"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts outbound notification attempts.
// Labels:
//   - channel: "email" or "sms"
//   - result: "sent", "failed" or "disabled"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Outbound notification attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsProcessedTotal counts events handled by dispatcher workers.
// Labels:
//   - kind: event kind, e.g. "parcel.created"
//   - result: "ok" or "error"
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of lifecycle events handled, by kind and result.",
	},
	[]string{"kind", "result"},
)

// EventsDroppedTotal counts events discarded because a worker queue was full
// or the dispatcher was already closed.
var EventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of lifecycle events dropped before processing.",
	},
	[]string{"kind"},
)

// EventsQueueDepth tracks pending events per dispatcher worker.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventHandlingDuration measures one handler invocation.
var EventHandlingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_handling_duration_seconds",
		Help:      "Duration of lifecycle event handling on a dispatcher worker.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
