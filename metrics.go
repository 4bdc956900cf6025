package userauth

import "github.com/prometheus/client_golang/prometheus"

var (
	// LoginsTotal counts login attempts by outcome (success, bad_credentials, error).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userauth_logins_total",
			Help: "Login attempts",
		},
		[]string{"outcome"},
	)

	// TokenValidationsTotal counts token validations by outcome
	// (ok, expired, bad_signature, malformed).
	TokenValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userauth_token_validations_total",
			Help: "Token validations",
		},
		[]string{"outcome"},
	)

	// RequestsRejectedTotal counts requests the access gate short-circuited,
	// by internal reason (missing_token, invalid_token, unknown_subject).
	RequestsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userauth_requests_rejected_total",
			Help: "Requests rejected by the access gate",
		},
		[]string{"reason"},
	)
)

// RegisterMetrics registers every collector with the given registry.
// Call it once at boot; prometheus panics on double registration.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		LoginsTotal,
		TokenValidationsTotal,
		RequestsRejectedTotal,
	)
}
