// Package metrics defines all custom Prometheus metrics for the user
// service. It is the single source of truth for metric names, labels, and
// help strings; metrics register themselves with the default registry at
// package load via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_service"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "rate_limited"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-token redemptions by outcome.
// Label:
//   - result: "success", "expired", "invalid_signature", or "malformed"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of refresh-token redemptions, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer-token checks performed by the auth
// middleware on protected routes.
// Label:
//   - result: "success" or "rejected"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of access-token verifications on protected routes.",
	},
	[]string{"result"},
)

// UsersCreatedTotal counts successfully registered accounts.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created.",
	},
)
