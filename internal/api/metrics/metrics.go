// Package metrics defines the custom Prometheus metrics of the user auth
// API. HTTP request metrics come from echoprometheus; the collectors here
// cover the authentication flow and the access policy gate.
//
// All collectors register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userauth"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Decision label values for AccessDecisionsTotal.
const (
	DecisionAllow           = "allow"
	DecisionUnauthenticated = "unauthenticated"
	DecisionForbidden       = "forbidden"
)

// AuthAttemptsTotal counts calls to the auth endpoints.
// Labels:
//   - operation: "register", "login" or "refresh"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register, login and refresh attempts by result.",
	},
	[]string{"operation", "result"},
)

// TokensIssuedTotal counts access tokens handed out.
// Label:
//   - operation: "login" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
	[]string{"operation"},
)

// AccessDecisionsTotal counts decisions taken by the authorization
// middleware.
// Labels:
//   - tier: "public", "authenticated" or "roles"
//   - decision: "allow", "unauthenticated" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access policy decisions by route tier.",
	},
	[]string{"tier", "decision"},
)

// UserMutationsTotal counts successful user management writes.
// Label:
//   - action: "create", "update" or "delete"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of user create, update and delete operations.",
	},
	[]string{"action"},
)

// AuthAttempt records one auth endpoint outcome.
func AuthAttempt(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
