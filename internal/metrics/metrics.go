package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the auth lifecycle counters. Store errors are
// counted separately from rejected credentials so an outage is
// distinguishable from invalid traffic, even though both surface to
// clients as a generic failure.
type Metrics struct {
	TokensIssued      prometheus.Counter
	TokensRedeemed    prometheus.Counter
	TokensRejected    prometheus.Counter
	SessionsCreated   prometheus.Counter
	SessionsDestroyed prometheus.Counter
	Unauthorized      prometheus.Counter
	StoreErrors       prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_magic_tokens_issued_total",
			Help: "Magic tokens minted for login links.",
		}),
		TokensRedeemed: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_magic_tokens_redeemed_total",
			Help: "Magic tokens successfully redeemed.",
		}),
		TokensRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_magic_tokens_rejected_total",
			Help: "Redemption attempts rejected as invalid or expired.",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_sessions_created_total",
			Help: "Server-side sessions created.",
		}),
		SessionsDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_sessions_destroyed_total",
			Help: "Server-side sessions explicitly destroyed.",
		}),
		Unauthorized: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_unauthorized_total",
			Help: "Requests rejected by the authorization gate.",
		}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_store_errors_total",
			Help: "Key-value store failures during auth operations.",
		}),
	}
}
