package client

import (
	"context"
	"crypto/rand"
	"strings"

	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"

	"github.com/obelisk/rustica/api/rusticapb"
)

// CertificateParams is what the caller asks for. The server's authorization
// backend has the final say on every field.
type CertificateParams struct {
	// CertType is ssh.UserCert or ssh.HostCert.
	CertType uint32
	// Authority selects a named signing authority. Empty means the
	// server's default.
	Authority  string
	Principals []string
	Servers    []string
	ValidAfter uint64
	// ValidBefore is the requested expiry as a unix timestamp.
	ValidBefore uint64
}

// IssuedCertificate is a successful issuance, including any replacement
// mTLS credentials the server attached.
type IssuedCertificate struct {
	Certificate *ssh.Certificate
	Raw         string
	// NewClientCertificate and NewClientKey are PEM encoded replacement
	// mTLS credentials, set when the server decided the current client
	// certificate is close to expiry. The caller should persist them and
	// reconnect with them before the old ones lapse.
	NewClientCertificate string
	NewClientKey         string
}

// RequestCertificate runs the full challenge and issuance exchange for the
// given key. The key signer is used to prove possession when the server
// demands it.
func (c *Client) RequestCertificate(ctx context.Context, key ssh.Signer, params CertificateParams) (*IssuedCertificate, error) {
	pubkey := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key.PublicKey())))

	challengeResp, err := c.rpc.Challenge(ctx, &rusticapb.ChallengeRequest{Pubkey: pubkey})
	if err != nil {
		return nil, trace.Wrap(err)
	}

	challenge, err := c.completeChallenge(challengeResp, key)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	resp, err := c.rpc.Certificate(ctx, &rusticapb.CertificateRequest{
		CertType:    params.CertType,
		KeyId:       params.Authority,
		Principals:  params.Principals,
		Servers:     params.Servers,
		ValidAfter:  params.ValidAfter,
		ValidBefore: params.ValidBefore,
		Challenge:   challenge,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if resp.ErrorCode != 0 {
		return nil, trace.AccessDenied("certificate request refused: %s (%d)", resp.Error, resp.ErrorCode)
	}

	parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(resp.Certificate))
	if err != nil {
		return nil, trace.Wrap(err, "parsing issued certificate")
	}
	cert, ok := parsed.(*ssh.Certificate)
	if !ok {
		return nil, trace.BadParameter("server returned a %s, not a certificate", parsed.Type())
	}

	return &IssuedCertificate{
		Certificate:          cert,
		Raw:                  resp.Certificate,
		NewClientCertificate: resp.NewClientCertificate,
		NewClientKey:         resp.NewClientKey,
	}, nil
}

// completeChallenge turns the server's challenge into a client challenge,
// resigning the challenge certificate with the enrolled key when the server
// requires proof of possession.
func (c *Client) completeChallenge(resp *rusticapb.ChallengeResponse, key ssh.Signer) (*rusticapb.ClientChallenge, error) {
	pubkey := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(key.PublicKey())))

	challenge := resp.Challenge
	if !resp.NoSignatureRequired {
		parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(resp.Challenge))
		if err != nil {
			return nil, trace.Wrap(err, "parsing challenge certificate")
		}
		cert, ok := parsed.(*ssh.Certificate)
		if !ok {
			return nil, trace.BadParameter("challenge is a %s, not a certificate", parsed.Type())
		}
		if err := cert.SignCert(rand.Reader, key); err != nil {
			return nil, trace.Wrap(err, "resigning challenge certificate")
		}
		challenge = strings.TrimSpace(string(ssh.MarshalAuthorizedKey(cert)))
	}
	return &rusticapb.ClientChallenge{
		Pubkey:        pubkey,
		ChallengeTime: resp.Time,
		Challenge:     challenge,
	}, nil
}
