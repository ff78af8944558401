package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rustica_challenges_issued_total",
		Help: "Number of challenges handed out to clients",
	})
	challengesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rustica_challenges_rejected_total",
		Help: "Number of returned challenges that failed validation",
	})
	certificatesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rustica_ssh_certificates_issued_total",
		Help: "Number of SSH certificates issued",
	}, []string{"type"})
	x509CertificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rustica_x509_certificates_issued_total",
		Help: "Number of attested X509 certificates issued",
	})
	keysRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rustica_keys_registered_total",
		Help: "Number of keys registered with the authorization backend",
	})
	allowedSignersRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rustica_allowed_signers_rate_limited_total",
		Help: "Number of allowed-signers requests refused by the rate limiter",
	})
)
