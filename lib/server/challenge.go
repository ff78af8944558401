package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"

	"github.com/obelisk/rustica/api/rusticapb"
)

const (
	// challengeSerial marks a certificate as a challenge transport. The
	// certificate is never usable: its validity window is empty.
	challengeSerial = uint64(0xFEFEFEFEFEFEFEFE)

	// challengeWindowSeconds is how long a caller has to prove possession
	// of their private key. Kept short so challenges cannot be buffered
	// and presigned for later use.
	challengeWindowSeconds = 5

	// maxPubkeyLen and maxChallengeLen bound attacker controlled inputs
	// before any parsing happens. An ED25519 public key string is 127
	// characters; the certificate that wraps it stays well under a
	// kilobyte.
	maxPubkeyLen    = 1024
	maxChallengeLen = 1024
)

// refreshSettings is the rolling mTLS reissuance hint: when the caller's
// client certificate is expired or close to it, the issuance path mints them
// a replacement with this window.
type refreshSettings struct {
	notBefore uint64
	notAfter  uint64
}

// mintChallenge builds the stateless challenge for a requested public key.
// The HMAC over (time, pubkey, identities) travels in the key_id field of a
// zero-validity host certificate signed by the process challenge key, so the
// server holds no per-challenge state at all.
func (s *Server) mintChallenge(pubkey string, identities []string) (*rusticapb.ChallengeResponse, error) {
	if len(pubkey) > maxPubkeyLen {
		return nil, trace.LimitExceeded("public key is too large (%d bytes)", len(pubkey))
	}

	sshPubkey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(pubkey))
	if err != nil {
		return nil, trace.AccessDenied("invalid public key")
	}

	timestamp := strconv.FormatUint(uint64(s.clock.Now().Unix()), 10)
	tag := s.challengeTag(timestamp, pubkey, identities)

	cert := &ssh.Certificate{
		Key:         sshPubkey,
		Serial:      challengeSerial,
		CertType:    ssh.HostCert,
		KeyId:       hex.EncodeToString(tag),
		ValidAfter:  0,
		ValidBefore: 0,
	}
	if err := cert.SignCert(rand.Reader, s.challengeSigner); err != nil {
		return nil, trace.AccessDenied("could not build challenge certificate")
	}

	return &rusticapb.ChallengeResponse{
		Time:                timestamp,
		Challenge:           marshalCert(cert),
		NoSignatureRequired: !s.requireProof,
	}, nil
}

// validateChallenge runs the full proof-of-possession pipeline over a
// returned challenge. The order of checks is load bearing: each failure maps
// to a specific taxonomy code.
//
// On success it returns the HMAC-attested public key, the caller's mTLS
// identities, and an optional reissuance hint for their client certificate.
func (s *Server) validateChallenge(info *peerInfo, challenge *rusticapb.ClientChallenge) (ssh.PublicKey, []string, *refreshSettings, error) {
	if challenge == nil || len(info.certs) != 1 {
		return nil, nil, nil, withCode(CodeBadRequest, trace.BadParameter("malformed request"))
	}
	identities := info.identities
	joined := strings.Join(identities, ",")

	requestTime, err := strconv.ParseUint(challenge.ChallengeTime, 10, 64)
	if err != nil {
		return nil, nil, nil, withCode(CodeUnknown, trace.BadParameter("unparsable challenge time"))
	}
	now := uint64(s.clock.Now().Unix())

	// An untrusted requestTime larger than now underflows here; the wrapped
	// value is enormous and fails the bound just the same.
	if now-requestTime > challengeWindowSeconds {
		log.Warnf("Expired challenge received from: %s", joined)
		return nil, nil, nil, withCode(CodeTimeExpired, trace.AccessDenied("challenge expired"))
	}

	// The certificate is not signed by us so integrity cannot be checked
	// before parsing. Bail on anything far larger than a real certificate
	// rather than spend the parse on attacker input.
	if len(challenge.Challenge) > maxChallengeLen {
		log.Warnf("Received a certificate that is far too large from: %s", joined)
		return nil, nil, nil, withCode(CodeUnknown, trace.LimitExceeded("challenge certificate too large"))
	}

	parsed, err := parseCert(challenge.Challenge)
	if err != nil {
		log.Warnf("Received a bad certificate from: %s", joined)
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("bad challenge certificate"))
	}

	// A correct public key with a forged signature is caught here.
	if err := verifyCertSignature(parsed); err != nil {
		log.Warnf("Received a certificate with a bad signature from: %s", joined)
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("bad challenge signature"))
	}

	verification := fmt.Sprintf("%d-%s-%s", requestTime, challenge.Pubkey, joined)
	decoded, err := hex.DecodeString(parsed.KeyId)
	if err != nil {
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("bad challenge tag"))
	}
	if !hmac.Equal(decoded, s.hmacTag(verification)) {
		log.Warnf("Received a bad challenge from: %s", joined)
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("challenge verification failed"))
	}

	// The HMAC passed, so the pubkey string is exactly what we minted the
	// challenge for. A parse failure here means we accepted a bad key at
	// mint time; checked for completeness.
	attestedPubkey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(challenge.Pubkey))
	if err != nil {
		log.Errorf("Public key was invalid when negotiating with [%s]. Public key: [%s]", joined, challenge.Pubkey)
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("invalid attested public key"))
	}

	// The transport accepted the connection while the client certificate
	// was still valid, but another second may have passed since. Offer a
	// replacement when the certificate is expired or inside the renewal
	// window.
	var refresh *refreshSettings
	expiry := uint64(info.notAfter)
	if now > expiry || expiry-now < s.clientAuthority.ExpirationRenewalPeriod {
		refresh = &refreshSettings{
			notBefore: now,
			notAfter:  now + s.clientAuthority.ValidityLength,
		}
	}

	if !s.requireProof {
		// Sanity check that the certificate we got back is the one we
		// signed.
		if ssh.FingerprintSHA256(parsed.SignatureKey) != ssh.FingerprintSHA256(s.challengeSigner.PublicKey()) {
			log.Warnf("Received an incorrect certificate from %s", joined)
			return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("challenge not signed by server"))
		}
		return attestedPubkey, identities, refresh, nil
	}

	// Proof of possession: the caller must resign the challenge
	// certificate with the key they are claiming, making it self signed.
	if ssh.FingerprintSHA256(parsed.Key) != ssh.FingerprintSHA256(parsed.SignatureKey) {
		log.Warnf("User key did not equal CA key when talking to: %s", joined)
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("challenge is not self signed"))
	}

	// The challenge pubkey is HMAC attested, so matching against it proves
	// the resigned certificate carries the key this challenge was for.
	if ssh.FingerprintSHA256(parsed.Key) != ssh.FingerprintSHA256(attestedPubkey) {
		log.Warnf("User key did not equal HMAC validated public key: %s", joined)
		return nil, nil, nil, withCode(CodeBadChallenge, trace.AccessDenied("challenge key mismatch"))
	}

	return attestedPubkey, identities, refresh, nil
}

func (s *Server) challengeTag(timestamp, pubkey string, identities []string) []byte {
	return s.hmacTag(fmt.Sprintf("%s-%s-%s", timestamp, pubkey, strings.Join(identities, ",")))
}

func (s *Server) hmacTag(message string) []byte {
	mac := hmac.New(sha256.New, s.hmacKey)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// marshalCert renders a certificate in authorized_keys form without the
// trailing newline, matching what clients send back.
func marshalCert(cert *ssh.Certificate) string {
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(cert)))
}

func parseCert(s string) (*ssh.Certificate, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(s))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	cert, ok := pub.(*ssh.Certificate)
	if !ok {
		return nil, trace.BadParameter("not a certificate")
	}
	return cert, nil
}

// verifyCertSignature checks the certificate's signature against its own
// SignatureKey. The signed payload is the marshaled certificate minus the
// trailing signature field.
func verifyCertSignature(cert *ssh.Certificate) error {
	if cert.Signature == nil || cert.SignatureKey == nil {
		return trace.BadParameter("certificate is unsigned")
	}
	blob := cert.Marshal()
	sigLen := 4 + len(ssh.Marshal(cert.Signature))
	if len(blob) < sigLen {
		return trace.BadParameter("malformed certificate")
	}
	return trace.Wrap(cert.SignatureKey.Verify(blob[:len(blob)-sigLen], cert.Signature))
}
