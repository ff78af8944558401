package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gravitational/trace"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/obelisk/rustica/api/rusticapb"
	"github.com/obelisk/rustica/lib/authorization"
	"github.com/obelisk/rustica/lib/logging"
	"github.com/obelisk/rustica/lib/signing"
	"github.com/obelisk/rustica/lib/verification"
)

var log = logrus.WithFields(logrus.Fields{
	trace.Component: "rustica:server",
})

// ClientAuthorityConfig controls rolling reissuance of caller mTLS
// certificates.
type ClientAuthorityConfig struct {
	// Authority names the signing backend whose client CA issues the
	// replacement certificates.
	Authority string
	// ValidityLength is the lifetime, in seconds, of a reissued client
	// certificate.
	ValidityLength uint64
	// ExpirationRenewalPeriod is how close to expiry, in seconds, a client
	// certificate must be before a replacement is offered.
	ExpirationRenewalPeriod uint64
}

// AllowedSignersConfig controls the allowed-signers cache and its
// per-identity rate limiter.
type AllowedSignersConfig struct {
	CacheValidityLength time.Duration
	LRURateLimiterSize  int
	RateLimitCooldown   time.Duration
}

// Config assembles a Server. Everything here is created once at startup and
// lives for the process lifetime.
type Config struct {
	// HMACKey keys the challenge MAC. Generated fresh at startup;
	// restarting the process invalidates outstanding challenges, which is
	// fine given the five second window.
	HMACKey []byte
	// ChallengeSigner signs challenge transport certificates. A dedicated
	// throwaway key, never a configured CA.
	ChallengeSigner ssh.Signer
	Authorizer      authorization.Authorizer
	Registry        *signing.Registry
	// RequireRusticaProof requires callers to resign the challenge
	// certificate, proving private key possession at the cost of an extra
	// hardware tap for touch-backed keys.
	RequireRusticaProof bool
	// RequireAttestationChain refuses key registration when the hardware
	// attestation chain does not verify.
	RequireAttestationChain bool
	ClientAuthority         ClientAuthorityConfig
	AllowedSigners          AllowedSignersConfig
	Events                  *logging.Sender
	Clock                   clockwork.Clock
}

func (c *Config) CheckAndSetDefaults() error {
	if len(c.HMACKey) == 0 {
		return trace.BadParameter("missing parameter HMACKey")
	}
	if c.ChallengeSigner == nil {
		return trace.BadParameter("missing parameter ChallengeSigner")
	}
	if c.Authorizer == nil {
		return trace.BadParameter("missing parameter Authorizer")
	}
	if c.Registry == nil {
		return trace.BadParameter("missing parameter Registry")
	}
	if c.AllowedSigners.LRURateLimiterSize <= 0 {
		return trace.BadParameter("lru_rate_limiter_size must be non-zero")
	}
	if c.Events == nil {
		c.Events = logging.NewSender(nil)
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Server implements the Rustica RPC surface. All mutable state is
// concentrated in the allowed-signers cache and its rate limiter; everything
// else is immutable after construction and safe for concurrent handlers.
type Server struct {
	rusticapb.UnimplementedRusticaServer

	hmacKey         []byte
	challengeSigner ssh.Signer
	authorizer      authorization.Authorizer
	registry        *signing.Registry
	requireProof    bool
	requireChain    bool
	clientAuthority ClientAuthorityConfig
	allowedSigners  AllowedSignersConfig
	events          *logging.Sender
	clock           clockwork.Clock
	pivVerify       func(leafDER, intermediateDER []byte) (*verification.AttestedKey, error)

	limiterMu sync.Mutex
	limiter   *lru.Cache[string, time.Time]

	cacheMu sync.RWMutex
	cache   signersCache
}

func New(cfg Config) (*Server, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	limiter, err := lru.New[string, time.Time](cfg.AllowedSigners.LRURateLimiterSize)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &Server{
		hmacKey:         cfg.HMACKey,
		challengeSigner: cfg.ChallengeSigner,
		authorizer:      cfg.Authorizer,
		registry:        cfg.Registry,
		requireProof:    cfg.RequireRusticaProof,
		requireChain:    cfg.RequireAttestationChain,
		clientAuthority: cfg.ClientAuthority,
		allowedSigners:  cfg.AllowedSigners,
		events:          cfg.Events,
		clock:           cfg.Clock,
		pivVerify:       verification.VerifyPIVCertificateChain,
		limiter:         limiter,
	}, nil
}

// Challenge hands the caller a freshly minted challenge for the key they
// want certified. Failures here are deliberately opaque.
func (s *Server) Challenge(ctx context.Context, req *rusticapb.ChallengeRequest) (*rusticapb.ChallengeResponse, error) {
	info, err := peerFromContext(ctx)
	if err != nil {
		return nil, trace.AccessDenied("")
	}

	if len(req.Pubkey) > maxPubkeyLen {
		log.Warnf("The pubkey size is too large (%d chars) for a challenge request from [%s]",
			len(req.Pubkey), strings.Join(info.identities, ","))
		return nil, trace.AccessDenied("")
	}

	resp, err := s.mintChallenge(req.Pubkey, info.identities)
	if err != nil {
		return nil, trace.AccessDenied("")
	}

	log.Debugf("[%s] from [%s] wants to authenticate with key [%s]",
		strings.Join(info.identities, ","), info.addr, req.Pubkey)
	challengesIssued.Inc()
	return resp, nil
}

// Certificate validates the returned challenge, consults the authorization
// backend, and issues the SSH certificate. Policy failures are returned
// inline via error_code rather than as transport errors so clients can tell
// them apart from connectivity problems.
func (s *Server) Certificate(ctx context.Context, req *rusticapb.CertificateRequest) (*rusticapb.CertificateResponse, error) {
	info, err := peerFromContext(ctx)
	if err != nil {
		return certificateErrorResponse(withCode(CodeBadRequest, err)), nil
	}

	sshPubkey, identities, refresh, err := s.validateChallenge(info, req.Challenge)
	if err != nil {
		challengesRejected.Inc()
		return certificateErrorResponse(err), nil
	}

	now := uint64(s.clock.Now().Unix())

	// Strict comparisons on both ends: an empty window is rejected, and so
	// is a window that ends exactly now.
	if req.ValidBefore < req.ValidAfter || now > req.ValidBefore {
		return certificateErrorResponse(withCode(CodeBadCertOptions,
			trace.BadParameter("invalid validity window"))), nil
	}

	var certType uint32
	switch req.CertType {
	case ssh.UserCert, ssh.HostCert:
		certType = req.CertType
	default:
		return certificateErrorResponse(withCode(CodeBadCertOptions,
			trace.BadParameter("unknown certificate type %d", req.CertType))), nil
	}

	authority := req.KeyId
	if authority == "" {
		authority = s.registry.DefaultAuthority()
	}

	fingerprint := ssh.FingerprintSHA256(sshPubkey)
	log.Debugf("[%s] from [%s] requests a cert for key [%s] from authority [%s]",
		strings.Join(identities, ","), info.addr, fingerprint, authority)

	// Checking the authority before calling the authorizer spares the
	// backend from traffic for keys we do not have, at the cost of making
	// key_id probing slightly easier. Brute forcing key_ids buys nothing
	// without authorization anyway.
	caPubkey, err := s.registry.SignerPublicKey(authority, certType)
	if err != nil {
		return certificateErrorResponse(withCode(CodeNotAuthorized, err)), nil
	}

	auth, err := s.authorizer.AuthorizeSSHCert(ctx, &authorization.SSHAuthorizationRequest{
		Fingerprint:    fingerprint,
		MTLSIdentities: identities,
		RequesterIP:    info.addr.String(),
		Principals:     req.Principals,
		Servers:        req.Servers,
		ValidBefore:    req.ValidBefore,
		ValidAfter:     req.ValidAfter,
		CertType:       certType,
		Authority:      authority,
	})
	if err != nil {
		return certificateErrorResponse(err), nil
	}

	criticalOptions := map[string]string{}
	if auth.ForceCommand != nil {
		criticalOptions["force-command"] = *auth.ForceCommand
	}
	if auth.ForceSourceIP {
		criticalOptions["source-address"] = requesterIP(info.addr)
	}

	cert := &ssh.Certificate{
		Key:             sshPubkey,
		Serial:          auth.Serial,
		CertType:        certType,
		KeyId:           fmt.Sprintf("Rustica-JITC-for-%s", fingerprint),
		ValidPrincipals: auth.Principals,
		ValidAfter:      auth.ValidAfter,
		ValidBefore:     auth.ValidBefore,
		Permissions: ssh.Permissions{
			CriticalOptions: criticalOptions,
			Extensions:      auth.Extensions,
		},
	}

	// The authorization backend picks the signing authority; it may differ
	// from the one the caller requested.
	if err := s.registry.SignSSH(ctx, auth.Authority, cert); err != nil {
		log.Errorf("Creating certificate failed: %v", err)
		return certificateErrorResponse(withCode(CodeBadChallenge, err)), nil
	}

	serialized := marshalCert(cert)

	// Sanity check that the certificate we just generated parses back.
	if _, err := parseCert(serialized); err != nil {
		log.Errorf("Couldn't deserialize certificate: %v", err)
		return certificateErrorResponse(withCode(CodeBadCertOptions, err)), nil
	}

	// Success puts an empty error string on the wire; only failures carry
	// the formatted code.
	resp := &rusticapb.CertificateResponse{
		Certificate: serialized,
		ErrorCode:   int64(CodeSuccess),
	}

	if refresh != nil {
		if err := s.attachNewClientCertificate(resp, identities, refresh); err != nil {
			// Reissuance is opportunistic; the SSH certificate is still
			// good, so log and move on.
			log.Warnf("Could not mint replacement mTLS certificate: %v", err)
		}
	}

	s.events.Send(logging.Event{CertificateIssued: &logging.CertificateIssued{
		Fingerprint:     fingerprint,
		SignedBy:        ssh.FingerprintSHA256(caPubkey),
		Authority:       authority,
		Serial:          auth.Serial,
		CertificateType: certTypeString(certType),
		MTLSIdentities:  identities,
		Principals:      auth.Principals,
		Extensions:      auth.Extensions,
		CriticalOptions: criticalOptions,
		ValidAfter:      auth.ValidAfter,
		ValidBefore:     auth.ValidBefore,
		NewAccessCertificateIssued: resp.NewClientCertificate != "",
	}})
	certificatesIssued.WithLabelValues(certTypeString(certType)).Inc()

	return resp, nil
}

// attachNewClientCertificate mints a replacement mTLS certificate for the
// caller off the configured client authority and attaches it, with its
// private key, to the response.
func (s *Server) attachNewClientCertificate(resp *rusticapb.CertificateResponse, identities []string, refresh *refreshSettings) error {
	ca, err := s.registry.ClientCertificateAuthority(s.clientAuthority.Authority)
	if err != nil {
		return trace.Wrap(err)
	}

	var commonName string
	if len(identities) > 0 {
		commonName = identities[0]
	}

	certPEM, keyPEM, err := ca.IssueClientCertificate(rand.Reader, commonName,
		time.Unix(int64(refresh.notBefore), 0), time.Unix(int64(refresh.notAfter), 0))
	if err != nil {
		return trace.Wrap(err)
	}
	resp.NewClientCertificate = string(certPEM)
	resp.NewClientKey = string(keyPEM)
	return nil
}

func certTypeString(certType uint32) string {
	switch certType {
	case ssh.UserCert:
		return "user"
	case ssh.HostCert:
		return "host"
	default:
		return "unknown"
	}
}

// RegisterKey registers a PIV-attested key with the authorization backend.
// Unlike Certificate, failures surface as transport errors.
func (s *Server) RegisterKey(ctx context.Context, req *rusticapb.RegisterKeyRequest) (*rusticapb.RegisterKeyResponse, error) {
	info, err := peerFromContext(ctx)
	if err != nil {
		return nil, trace.AccessDenied("")
	}

	sshPubkey, identities, _, err := s.validateChallenge(info, req.Challenge)
	if err != nil {
		log.Errorf("Could not validate request: %v", err)
		return nil, status.Error(codes.Canceled, "could not validate request")
	}

	attested, err := s.pivVerify(req.Certificate, req.Intermediate)
	fingerprint, attestation, err := s.checkAttestation(attested, err, sshPubkey, identities, info)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	if err := s.registerKey(ctx, fingerprint, sshPubkey, identities, info, attestation); err != nil {
		return nil, trace.Wrap(err)
	}
	return &rusticapb.RegisterKeyResponse{}, nil
}

// RegisterU2FKey registers a U2F/FIDO2-attested key with the authorization
// backend.
func (s *Server) RegisterU2FKey(ctx context.Context, req *rusticapb.RegisterU2FKeyRequest) (*rusticapb.RegisterU2FKeyResponse, error) {
	info, err := peerFromContext(ctx)
	if err != nil {
		return nil, trace.AccessDenied("")
	}

	sshPubkey, identities, _, err := s.validateChallenge(info, req.Challenge)
	if err != nil {
		return nil, status.Error(codes.Canceled, "could not validate request")
	}

	attested, err := verification.VerifyU2FCertificateChain(verification.U2FAttestationRequest{
		AuthData:          req.AuthData,
		AuthDataSignature: req.AuthDataSignature,
		Intermediate:      req.Intermediate,
		Alg:               req.Alg,
		Challenge:         req.U2FChallenge,
		Application:       req.SkApplication,
		ChallengeHashed:   req.U2FChallengeHashed,
	})
	fingerprint, attestation, err := s.checkAttestation(attested, err, sshPubkey, identities, info)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	if err := s.registerKey(ctx, fingerprint, sshPubkey, identities, info, attestation); err != nil {
		return nil, trace.Wrap(err)
	}
	return &rusticapb.RegisterU2FKeyResponse{}, nil
}

// checkAttestation applies the shared registration policy: a verified
// attestation must match the challenge key; a failed verification is fatal
// only when the attestation chain is required.
func (s *Server) checkAttestation(attested *verification.AttestedKey, verifyErr error, sshPubkey ssh.PublicKey, identities []string, info *peerInfo) (string, *verification.KeyAttestation, error) {
	fingerprint := ssh.FingerprintSHA256(sshPubkey)
	if verifyErr == nil {
		// An attestation for a different key than the challenge means the
		// chain was lifted from somewhere else.
		if fingerprint != attested.Fingerprint {
			log.Warnf("Attestation fingerprint did not match challenge from host [%s]. Attestation: [%s] Challenge: [%s]",
				requesterIP(info.addr), attested.Fingerprint, fingerprint)
			return "", nil, trace.BadParameter("attestation did not match challenge")
		}
		return attested.Fingerprint, attested.Attestation, nil
	}

	if !s.requireChain {
		return fingerprint, nil, nil
	}

	s.events.Send(logging.Event{KeyRegistrationFailure: &logging.KeyRegistrationFailure{
		KeyInfo: logging.KeyInfo{Fingerprint: fingerprint, MTLSIdentities: identities},
		Message: "Attempt to register a key with an invalid attestation chain",
	}})
	return "", nil, trace.ConnectionProblem(verifyErr, "could not register a key without valid attestation data")
}

func (s *Server) registerKey(ctx context.Context, fingerprint string, sshPubkey ssh.PublicKey, identities []string, info *peerInfo, attestation *verification.KeyAttestation) error {
	err := s.authorizer.RegisterKey(ctx, &authorization.RegisterKeyRequest{
		Fingerprint:    fingerprint,
		Pubkey:         marshalPubkey(sshPubkey),
		MTLSIdentities: identities,
		RequesterIP:    info.addr.String(),
		Attestation:    attestation,
	})
	if err != nil {
		log.Infof("Key register error: %v", err)
		s.events.Send(logging.Event{KeyRegistrationFailure: &logging.KeyRegistrationFailure{
			KeyInfo: logging.KeyInfo{Fingerprint: fingerprint, MTLSIdentities: identities},
			Message: err.Error(),
		}})
		return trace.ConnectionProblem(err, "could not register new key")
	}

	s.events.Send(logging.Event{KeyRegistered: &logging.KeyInfo{
		Fingerprint:    fingerprint,
		MTLSIdentities: identities,
	}})
	keysRegistered.Inc()
	return nil
}

func marshalPubkey(pub ssh.PublicKey) string {
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub)))
}
