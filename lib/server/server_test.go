package server

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/obelisk/rustica/api/rusticapb"
	"github.com/obelisk/rustica/lib/authorization"
)

// issueCertificate runs the full challenge/certificate exchange for a fresh
// client key and returns the response.
func issueCertificate(t *testing.T, s *Server, ctx context.Context, req *rusticapb.CertificateRequest, pubkey string, signer ssh.Signer) *rusticapb.CertificateResponse {
	t.Helper()
	challengeResp, err := s.Challenge(ctx, &rusticapb.ChallengeRequest{Pubkey: pubkey})
	require.NoError(t, err)
	req.Challenge = completeChallenge(t, challengeResp, pubkey, signer)
	resp, err := s.Certificate(ctx, req)
	require.NoError(t, err)
	return resp
}

func TestCertificateIssuance(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, clock)
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		Principals:  []string{"alice"},
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	require.Equal(t, int64(CodeSuccess), resp.ErrorCode, "unexpected error: %s", resp.Error)
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.NewClientCertificate)

	cert, err := parseCert(resp.Certificate)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cert.Serial)
	assert.Equal(t, []string{"alice"}, cert.ValidPrincipals)
	assert.Equal(t, now, cert.ValidAfter)
	assert.Equal(t, now+600, cert.ValidBefore)
	assert.Equal(t, map[string]string{"permit-pty": ""}, cert.Permissions.Extensions)
	assert.Equal(t, "Rustica-JITC-for-"+ssh.FingerprintSHA256(cert.Key), cert.KeyId)
	assert.Equal(t, pubkey, marshalPubkey(cert.Key))

	// Signed by the default authority's user CA.
	caKey, err := s.registry.SignerPublicKey("example", ssh.UserCert)
	require.NoError(t, err)
	assert.Equal(t, ssh.FingerprintSHA256(caKey), ssh.FingerprintSHA256(cert.SignatureKey))
}

func TestCertificateValidityWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, clock)
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	tests := []struct {
		name        string
		validAfter  uint64
		validBefore uint64
	}{
		{name: "inverted window", validAfter: now + 600, validBefore: now},
		{name: "already expired", validAfter: now - 600, validBefore: now - 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
				CertType:    ssh.UserCert,
				Principals:  []string{"alice"},
				ValidAfter:  tc.validAfter,
				ValidBefore: tc.validBefore,
			}, pubkey, signer)
			assert.Equal(t, int64(CodeBadCertOptions), resp.ErrorCode)
			assert.Empty(t, resp.Certificate)
		})
	}

	// Expiring exactly now is still acceptable.
	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		Principals:  []string{"alice"},
		ValidAfter:  now,
		ValidBefore: now,
	}, pubkey, signer)
	assert.Equal(t, int64(CodeSuccess), resp.ErrorCode)
}

func TestCertificateBadType(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, clock)
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    3,
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	assert.Equal(t, int64(CodeBadCertOptions), resp.ErrorCode)
}

func TestCertificateUnknownAuthority(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, clock)
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		KeyId:       "nonexistent",
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	assert.Equal(t, int64(CodeNotAuthorized), resp.ErrorCode)

	// The secondary authority has no host key.
	resp = issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.HostCert,
		KeyId:       "secondary",
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	assert.Equal(t, int64(CodeNotAuthorized), resp.ErrorCode)
}

func TestCertificateAuthorityRedirect(t *testing.T) {
	clock := clockwork.NewFakeClock()
	// The backend grants the request but redirects signing to the
	// secondary authority.
	redirect := &fakeAuthorizer{
		authorizeSSH: func(ctx context.Context, req *authorization.SSHAuthorizationRequest) (*authorization.SSHAuthorization, error) {
			auth, _ := grantAll(ctx, req)
			auth.Authority = "secondary"
			return auth, nil
		},
	}
	s := newTestServer(t, clock, withAuthorizer(redirect))
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		Principals:  []string{"alice"},
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	require.Equal(t, int64(CodeSuccess), resp.ErrorCode)

	cert, err := parseCert(resp.Certificate)
	require.NoError(t, err)
	caKey, err := s.registry.SignerPublicKey("secondary", ssh.UserCert)
	require.NoError(t, err)
	assert.Equal(t, ssh.FingerprintSHA256(caKey), ssh.FingerprintSHA256(cert.SignatureKey))
}

func TestCertificateAuthorizerDenial(t *testing.T) {
	clock := clockwork.NewFakeClock()
	deny := &fakeAuthorizer{
		authorizeSSH: func(ctx context.Context, req *authorization.SSHAuthorizationRequest) (*authorization.SSHAuthorization, error) {
			return nil, trace.AccessDenied("not allowed")
		},
	}
	s := newTestServer(t, clock, withAuthorizer(deny))
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	assert.Equal(t, int64(CodeNotAuthorized), resp.ErrorCode)
}

func TestCertificateCriticalOptions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	forced := &fakeAuthorizer{
		authorizeSSH: func(ctx context.Context, req *authorization.SSHAuthorizationRequest) (*authorization.SSHAuthorization, error) {
			auth, _ := grantAll(ctx, req)
			cmd := "/usr/bin/true"
			auth.ForceCommand = &cmd
			auth.ForceSourceIP = true
			return auth, nil
		},
	}
	s := newTestServer(t, clock, withAuthorizer(forced))
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		Principals:  []string{"alice"},
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	require.Equal(t, int64(CodeSuccess), resp.ErrorCode)

	cert, err := parseCert(resp.Certificate)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"force-command":  "/usr/bin/true",
		"source-address": "192.0.2.1",
	}, cert.Permissions.CriticalOptions)
}

func TestCertificateClientReissuance(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newTestServer(t, clock)
	signer, pubkey := newClientKey(t)
	// Ten seconds to expiry is well inside the renewal period.
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(10*time.Second))
	now := uint64(clock.Now().Unix())

	resp := issueCertificate(t, s, ctx, &rusticapb.CertificateRequest{
		CertType:    ssh.UserCert,
		Principals:  []string{"alice"},
		ValidAfter:  now,
		ValidBefore: now + 600,
	}, pubkey, signer)
	require.Equal(t, int64(CodeSuccess), resp.ErrorCode)
	require.NotEmpty(t, resp.NewClientCertificate)
	require.NotEmpty(t, resp.NewClientKey)

	block, _ := pem.Decode([]byte(resp.NewClientCertificate))
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", cert.Subject.CommonName)
	assert.Empty(t, cert.DNSNames)
	assert.Empty(t, cert.EmailAddresses)
	assert.Equal(t, int64(now+s.clientAuthority.ValidityLength), cert.NotAfter.Unix())
	assert.Contains(t, cert.ExtKeyUsage, x509.ExtKeyUsageClientAuth)

	keyBlock, _ := pem.Decode([]byte(resp.NewClientKey))
	require.NotNil(t, keyBlock)
	_, err = x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	require.NoError(t, err)

	// The reissued certificate chains to the client CA the server trusts.
	ca, err := s.registry.ClientCertificateAuthority(s.clientAuthority.Authority)
	require.NoError(t, err)
	require.NoError(t, cert.CheckSignatureFrom(ca.Certificate))
}

func TestRegisterKeyWithoutChain(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var registered *authorization.RegisterKeyRequest
	recorder := &fakeAuthorizer{
		authorizeSSH: grantAll,
		registerKey: func(ctx context.Context, req *authorization.RegisterKeyRequest) error {
			registered = req
			return nil
		},
	}
	s := newTestServer(t, clock, withAuthorizer(recorder))
	signer, pubkey := newClientKey(t)
	ctx := peerContext(t, []string{"alice@example.com"}, clock.Now().Add(time.Hour))

	challengeResp, err := s.Challenge(ctx, &rusticapb.ChallengeRequest{Pubkey: pubkey})
	require.NoError(t, err)

	// Garbage attestation material with require_attestation_chain off:
	// the key registers without attestation data.
	_, err = s.RegisterKey(ctx, &rusticapb.RegisterKeyRequest{
		Challenge:    completeChallenge(t, challengeResp, pubkey, signer),
		Certificate:  []byte("not a certificate"),
		Intermediate: []byte("not a certificate"),
	})
	require.NoError(t, err)
	require.NotNil(t, registered)
	assert.Equal(t, pubkey, registered.Pubkey)
	assert.Nil(t, registered.Attestation)

	// With the chain required, the same request is refused.
	s.requireChain = true
	challengeResp, err = s.Challenge(ctx, &rusticapb.ChallengeRequest{Pubkey: pubkey})
	require.NoError(t, err)
	_, err = s.RegisterKey(ctx, &rusticapb.RegisterKeyRequest{
		Challenge:    completeChallenge(t, challengeResp, pubkey, signer),
		Certificate:  []byte("not a certificate"),
		Intermediate: []byte("not a certificate"),
	})
	require.Error(t, err)
}
