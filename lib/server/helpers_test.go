package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"testing"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"

	"github.com/obelisk/rustica/api/rusticapb"
	"github.com/obelisk/rustica/lib/authorization"
	"github.com/obelisk/rustica/lib/logging"
	"github.com/obelisk/rustica/lib/signing"
	"github.com/obelisk/rustica/lib/verification"
)

// fakeAuthorizer lets each test decide every authorization outcome.
type fakeAuthorizer struct {
	authorizeSSH  func(ctx context.Context, req *authorization.SSHAuthorizationRequest) (*authorization.SSHAuthorization, error)
	authorizeX509 func(ctx context.Context, req *authorization.X509AuthorizationRequest) (*authorization.X509Authorization, error)
	registerKey   func(ctx context.Context, req *authorization.RegisterKeyRequest) error
	allowed       func(ctx context.Context, req *authorization.AllowedSignersRequest) ([]authorization.AllowedSigner, error)
}

func (f *fakeAuthorizer) AuthorizeSSHCert(ctx context.Context, req *authorization.SSHAuthorizationRequest) (*authorization.SSHAuthorization, error) {
	return f.authorizeSSH(ctx, req)
}

func (f *fakeAuthorizer) AuthorizeAttestedX509Cert(ctx context.Context, req *authorization.X509AuthorizationRequest) (*authorization.X509Authorization, error) {
	return f.authorizeX509(ctx, req)
}

func (f *fakeAuthorizer) RegisterKey(ctx context.Context, req *authorization.RegisterKeyRequest) error {
	return f.registerKey(ctx, req)
}

func (f *fakeAuthorizer) AllowedSigners(ctx context.Context, req *authorization.AllowedSignersRequest) ([]authorization.AllowedSigner, error) {
	return f.allowed(ctx, req)
}

// grantAll authorizes exactly what was requested, in the requested
// authority.
func grantAll(ctx context.Context, req *authorization.SSHAuthorizationRequest) (*authorization.SSHAuthorization, error) {
	return &authorization.SSHAuthorization{
		Serial:      42,
		ValidBefore: req.ValidBefore,
		ValidAfter:  req.ValidAfter,
		Principals:  req.Principals,
		Extensions:  map[string]string{"permit-pty": ""},
		Authority:   req.Authority,
	}, nil
}

func newSSHKeyPEM(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	return string(pem.EncodeToMemory(block))
}

// newCAPEM builds a self-signed CA usable as a client or X509 authority.
func newCAPEM(t *testing.T) (certPEM, keyPEM string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

func newTestRegistry(t *testing.T) *signing.Registry {
	t.Helper()
	caCert, caKey := newCAPEM(t)
	registry, err := signing.NewRegistry(context.Background(), signing.Config{
		DefaultAuthority: "example",
		Authorities: map[string]signing.AuthorityConfig{
			"example": {
				Kind:              "file",
				UserKey:           newSSHKeyPEM(t),
				HostKey:           newSSHKeyPEM(t),
				X509Certificate:   caCert,
				X509Key:           caKey,
				ClientCertificate: caCert,
				ClientKey:         caKey,
			},
			"secondary": {
				Kind:    "file",
				UserKey: newSSHKeyPEM(t),
			},
		},
	})
	require.NoError(t, err)
	return registry
}

type testServerOption func(*Server)

func withRequireProof(s *Server) { s.requireProof = true }

func withAuthorizer(a authorization.Authorizer) testServerOption {
	return func(s *Server) { s.authorizer = a }
}

func withPIVVerifier(verify func(leafDER, intermediateDER []byte) (*verification.AttestedKey, error)) testServerOption {
	return func(s *Server) { s.pivVerify = verify }
}

func newTestServer(t *testing.T, clock clockwork.Clock, opts ...testServerOption) *Server {
	t.Helper()
	hmacKey := make([]byte, 32)
	_, err := rand.Read(hmacKey)
	require.NoError(t, err)

	_, challengePriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	challengeSigner, err := ssh.NewSignerFromSigner(challengePriv)
	require.NoError(t, err)

	limiter, err := lru.New[string, time.Time](16)
	require.NoError(t, err)

	s := &Server{
		hmacKey:         hmacKey,
		challengeSigner: challengeSigner,
		authorizer: &fakeAuthorizer{
			authorizeSSH: grantAll,
		},
		registry: newTestRegistry(t),
		clientAuthority: ClientAuthorityConfig{
			Authority:               "example",
			ValidityLength:          86400,
			ExpirationRenewalPeriod: 300,
		},
		allowedSigners: AllowedSignersConfig{
			CacheValidityLength: 15 * time.Minute,
			LRURateLimiterSize:  16,
			RateLimitCooldown:   time.Minute,
		},
		events:    logging.NewSender(nil),
		clock:     clock,
		pivVerify: verification.VerifyPIVCertificateChain,
		limiter:   limiter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newClientKey returns an ed25519 keypair in both SSH forms tests need.
func newClientKey(t *testing.T) (ssh.Signer, string) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromSigner(priv)
	require.NoError(t, err)
	return signer, marshalPubkey(signer.PublicKey())
}

// peerContext builds a gRPC context carrying an mTLS peer with the given
// identities and client certificate expiry.
func peerContext(t *testing.T, identities []string, notAfter time.Time) context.Context {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	subject := pkix.Name{}
	for _, identity := range identities {
		subject.ExtraNames = append(subject.ExtraNames, pkix.AttributeTypeAndValue{
			Type:  commonNameOID,
			Value: identity,
		})
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      subject,
		NotBefore:    notAfter.Add(-time.Hour),
		NotAfter:     notAfter,
	}
	certDER, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(certDER)
	require.NoError(t, err)

	return peer.NewContext(context.Background(), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 50000},
		AuthInfo: credentials.TLSInfo{
			State: tls.ConnectionState{
				PeerCertificates: []*x509.Certificate{cert},
			},
		},
	})
}

// completeChallenge answers a challenge the way a compliant client would:
// resigning with the enrolled key when proof is required.
func completeChallenge(t *testing.T, resp *rusticapb.ChallengeResponse, pubkey string, signer ssh.Signer) *rusticapb.ClientChallenge {
	t.Helper()
	challenge := resp.Challenge
	if !resp.NoSignatureRequired {
		cert, err := parseCert(resp.Challenge)
		require.NoError(t, err)
		require.NoError(t, cert.SignCert(rand.Reader, signer))
		challenge = marshalCert(cert)
	}
	return &rusticapb.ClientChallenge{
		Pubkey:        pubkey,
		ChallengeTime: resp.Time,
		Challenge:     challenge,
	}
}
