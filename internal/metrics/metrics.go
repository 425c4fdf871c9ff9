// Package metrics exposes Prometheus counters for login resolution and the
// administrator lifecycle.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for LoginAttempts.
const (
	OutcomeSuccess      = "success"
	OutcomeFailure      = "failure"
	OutcomeAdminPending = "admin_pending"
	OutcomeRateLimited  = "rate_limited"
	OutcomeInvalidInput = "invalid_input"
	OutcomeUnavailable  = "unavailable"
)

// RoleAny labels attempts that were not resolved to a single role.
const RoleAny = "any"

// LoginAttempts counts login calls by resolved role and outcome.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "roomgate_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"role", "outcome"},
)

// Lockouts counts identifiers entering the locked state.
var Lockouts = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "roomgate_login_lockouts_total",
		Help: "Total number of identifiers locked out after repeated failures",
	},
)

// AdminTransitions counts administrator lifecycle actions by action and result.
var AdminTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "roomgate_admin_transitions_total",
		Help: "Total number of administrator lifecycle actions",
	},
	[]string{"action", "result"},
)

// RegisterMetrics registers the package collectors with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(Lockouts)
	reg.MustRegister(AdminTransitions)
}

func RecordLogin(role, outcome string) {
	LoginAttempts.WithLabelValues(role, outcome).Inc()
}

func RecordLockout() {
	Lockouts.Inc()
}

func RecordAdminTransition(action, result string) {
	AdminTransitions.WithLabelValues(action, result).Inc()
}
