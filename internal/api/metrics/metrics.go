// Package metrics defines and registers the Prometheus metrics exported by
// the identity and account services. It is the single source of truth for
// metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and served by the ops HTTP server under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── RPC metrics ───────────────────────────────────────────────────────────────

// RPCRequestsTotal counts finished RPCs.
// Labels:
//   - service: "identity" or "account"
//   - method: RPC method name (e.g. "UpdateCart")
//   - code: gRPC status code name (e.g. "OK", "NotFound", "Internal")
var RPCRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of RPCs handled, by service, method and status code.",
	},
	[]string{"service", "method", "code"},
)

// RPCDuration measures handler latency.
var RPCDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Duration of RPC handling, from decoded request to encoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service", "method"},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate" or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// CartUpdatesTotal counts successful cart mutations.
// Label:
//   - op: "added", "updated" or "cleared"
var CartUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_updates_total",
		Help:      "Total number of applied cart mutations, by kind.",
	},
	[]string{"op"},
)

// PromoChangesTotal counts promo-code add/remove calls.
// Labels:
//   - op: "add" or "remove"
//   - result: "applied", "rejected" or "user_not_found"
var PromoChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promo_changes_total",
		Help:      "Total number of promo-code changes, by operation and result.",
	},
	[]string{"op", "result"},
)

// NameCacheTotal counts username cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var NameCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "name_cache_total",
		Help:      "Total number of username cache lookups, by result.",
	},
	[]string{"result"},
)
