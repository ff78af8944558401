// Command rustica is a just-in-time SSH and X509 certificate authority.
// Clients authenticate over mTLS, prove possession of a hardware backed
// key, and receive short lived certificates scoped by an authorization
// backend.
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravitational/kingpin"
	"github.com/gravitational/trace"
	"github.com/gravitational/trace/trail"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/obelisk/rustica/api/rusticapb"
	"github.com/obelisk/rustica/lib/authorization"
	"github.com/obelisk/rustica/lib/config"
	"github.com/obelisk/rustica/lib/logging"
	"github.com/obelisk/rustica/lib/server"
	"github.com/obelisk/rustica/lib/signing"
)

var log = logrus.WithFields(logrus.Fields{
	trace.Component: "rustica",
})

func main() {
	if err := run(); err != nil {
		log.Fatalf("Rustica failed to start: %v", err)
	}
}

func run() error {
	app := kingpin.New("rustica", "A just-in-time SSH and X509 certificate authority backed by hardware keys.")
	configPath := app.Flag("config", "Path to the configuration file.").
		Default(config.DefaultPath).String()
	validate := app.Flag("validate-config", "Validate the configuration and exit. Pass twice to also confirm key access.").
		Short('v').Counter()
	debug := app.Flag("debug", "Enable verbose logging.").Bool()

	if _, err := app.Parse(os.Args[1:]); err != nil {
		return trace.Wrap(err)
	}
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return trace.Wrap(err)
	}
	if *validate == 1 {
		fmt.Println("Configuration parsed successfully")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authorizer, err := authorization.New(ctx, cfg.Authorization)
	if err != nil {
		return trace.Wrap(err)
	}

	registry, err := signing.NewRegistry(ctx, cfg.Signing)
	if err != nil {
		return trace.Wrap(err)
	}

	clientCA, err := registry.ClientCertificateAuthority(cfg.ClientAuthority.Authority)
	if err != nil {
		return trace.Wrap(err, "the client authority %q cannot issue client certificates (configured authorities: %v)",
			cfg.ClientAuthority.Authority, registry.Authorities())
	}

	if *validate > 1 {
		fmt.Println("Configuration validated, all keys accessible")
		fmt.Println(registry.String())
		return nil
	}
	log.Infof("Starting with authorities:\n%s", registry.String())

	// The HMAC key and the challenge signing key live only as long as the
	// process. Outstanding challenges do not survive a restart, which the
	// five second window makes irrelevant.
	hmacKey := make([]byte, 32)
	if _, err := rand.Read(hmacKey); err != nil {
		return trace.Wrap(err)
	}
	_, challengePriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return trace.Wrap(err)
	}
	challengeSigner, err := ssh.NewSignerFromSigner(challengePriv)
	if err != nil {
		return trace.Wrap(err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return trace.Wrap(err)
	}
	go logger.Run(ctx)

	srv, err := server.New(server.Config{
		HMACKey:                 hmacKey,
		ChallengeSigner:         challengeSigner,
		Authorizer:              authorizer,
		Registry:                registry,
		RequireRusticaProof:     cfg.RequireRusticaProof,
		RequireAttestationChain: cfg.RequireAttestationChain,
		ClientAuthority: server.ClientAuthorityConfig{
			Authority:               cfg.ClientAuthority.Authority,
			ValidityLength:          cfg.ClientAuthority.ValidityLength,
			ExpirationRenewalPeriod: cfg.ClientAuthority.ExpirationRenewalPeriod,
		},
		AllowedSigners: server.AllowedSignersConfig{
			CacheValidityLength: time.Duration(cfg.AllowedSigners.CacheValidityLength) * time.Second,
			LRURateLimiterSize:  cfg.AllowedSigners.LRURateLimiterSize,
			RateLimitCooldown:   time.Duration(cfg.AllowedSigners.RateLimitCooldown) * time.Second,
		},
		Events: logger.Sender(),
		Clock:  clockwork.NewRealClock(),
	})
	if err != nil {
		return trace.Wrap(err)
	}

	tlsConfig, err := serverTLSConfig(cfg, clientCA)
	if err != nil {
		return trace.Wrap(err)
	}

	grpcServer := grpc.NewServer(
		grpc.Creds(credentials.NewTLS(tlsConfig)),
		grpc.ChainUnaryInterceptor(errorInterceptor),
	)
	rusticapb.RegisterRusticaServer(grpcServer, srv)

	if cfg.MetricsAddress != "" {
		go serveMetrics(cfg.MetricsAddress)
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return trace.Wrap(err)
	}
	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		grpcServer.GracefulStop()
	}()

	log.Infof("Listening on %s", cfg.ListenAddress)
	return trace.Wrap(grpcServer.Serve(listener))
}

// serverTLSConfig requires and verifies client certificates against the
// registry's client CA, so only certificates we (or a predecessor process)
// issued can connect.
func serverTLSConfig(cfg *config.Config, clientCA *signing.CertificateAuthority) (*tls.Config, error) {
	serverCert, err := tls.X509KeyPair([]byte(cfg.ServerCert), []byte(cfg.ServerKey))
	if err != nil {
		return nil, trace.Wrap(err, "parsing server credentials")
	}

	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: clientCA.Certificate.Raw,
	}))

	return &tls.Config{
		Certificates: []tls.Certificate{serverCert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// errorInterceptor converts trace errors to gRPC status codes on the
// endpoints that surface failures through the transport.
func errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		return resp, trail.ToGRPC(err)
	}
	return resp, nil
}

func serveMetrics(address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Infof("Serving metrics on %s", address)
	if err := http.ListenAndServe(address, mux); err != nil {
		log.Errorf("Metrics listener failed: %v", err)
	}
}
