// Package metrics defines and registers the custom Prometheus metrics of the
// user service. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users stored through POST /users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of users created.",
	},
)

// UsersDeletedTotal counts users removed through DELETE /users/:id.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// ── Credential metrics ────────────────────────────────────────────────────────

// CredentialValidationsTotal counts credential checks.
// Label:
//   - result: "accepted", "rejected", "throttled" or "error"
var CredentialValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_validations_total",
		Help:      "Total number of credential validations, labelled by result.",
	},
	[]string{"result"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreErrorsTotal counts failed document store round trips.
// Labels:
//   - operation: "create", "get", "get_all", "update" or "delete"
//   - kind: "duplicate_key", "unavailable" or "failed"
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed document store operations.",
	},
	[]string{"operation", "kind"},
)
