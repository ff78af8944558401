package verification

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"
	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"
)

// COSE algorithm identifiers (RFC 8152).
const (
	algES256 = -7
	algEdDSA = -8
)

// authData flag bit: attested credential data is present.
const flagAttestedCredentialData = 0x40

// U2FAttestationRequest carries the registration data a U2F/FIDO2
// authenticator emits when enrolling a new credential.
type U2FAttestationRequest struct {
	AuthData          []byte
	AuthDataSignature []byte
	Intermediate      []byte
	Alg               int32
	Challenge         []byte
	Application       string
	// ChallengeHashed marks that Challenge already carries the client data
	// hash rather than the raw client data.
	ChallengeHashed bool
}

// attestedCredential is the credential block embedded in authData.
type attestedCredential struct {
	aaguid       []byte
	credentialID []byte
	publicKey    coseKey
}

type coseKey struct {
	Kty int    `cbor:"1,keyasint"`
	Alg int    `cbor:"3,keyasint"`
	Crv int    `cbor:"-1,keyasint,omitempty"`
	X   []byte `cbor:"-2,keyasint,omitempty"`
	Y   []byte `cbor:"-3,keyasint,omitempty"`
}

// VerifyU2FCertificateChain verifies a U2F enrollment: the authenticator's
// attestation certificate must have signed the authenticator data, and the
// authenticator data must bind to the claimed application. The credential
// public key is returned as an openssh security key.
func VerifyU2FCertificateChain(req U2FAttestationRequest) (*AttestedKey, error) {
	if len(req.AuthData) < 37 {
		return nil, trace.BadParameter("authenticator data too short")
	}
	rpIDHash := req.AuthData[:32]
	flags := req.AuthData[32]

	appHash := sha256.Sum256([]byte(req.Application))
	if !bytes.Equal(rpIDHash, appHash[:]) {
		return nil, trace.BadParameter("authenticator data is not bound to application %q", req.Application)
	}
	if flags&flagAttestedCredentialData == 0 {
		return nil, trace.BadParameter("authenticator data carries no attested credential")
	}

	credential, err := parseAttestedCredential(req.AuthData[37:])
	if err != nil {
		return nil, trace.Wrap(err)
	}

	clientDataHash := req.Challenge
	if !req.ChallengeHashed {
		sum := sha256.Sum256(req.Challenge)
		clientDataHash = sum[:]
	}
	signed := append(append([]byte{}, req.AuthData...), clientDataHash...)

	attestationCert, err := x509.ParseCertificate(req.Intermediate)
	if err != nil {
		return nil, trace.Wrap(err, "parsing attestation certificate")
	}
	if err := verifyAttestationSignature(attestationCert, req.Alg, signed, req.AuthDataSignature); err != nil {
		return nil, trace.Wrap(err)
	}

	pubkey, err := credential.publicKey.sshPublicKey(req.Application)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	return &AttestedKey{
		Fingerprint: ssh.FingerprintSHA256(pubkey),
		PublicKey:   pubkey,
		Attestation: &KeyAttestation{
			Certificate: req.Intermediate,
			AuthData:    req.AuthData,
		},
	}, nil
}

func parseAttestedCredential(data []byte) (*attestedCredential, error) {
	if len(data) < 18 {
		return nil, trace.BadParameter("attested credential data too short")
	}
	credIDLen := binary.BigEndian.Uint16(data[16:18])
	if len(data) < 18+int(credIDLen) {
		return nil, trace.BadParameter("attested credential data too short")
	}

	cred := &attestedCredential{
		aaguid:       data[:16],
		credentialID: data[18 : 18+credIDLen],
	}

	// The COSE key may be followed by extension data; decode exactly one
	// CBOR item.
	dec := cbor.NewDecoder(bytes.NewReader(data[18+credIDLen:]))
	if err := dec.Decode(&cred.publicKey); err != nil {
		return nil, trace.Wrap(err, "parsing credential public key")
	}
	return cred, nil
}

func verifyAttestationSignature(cert *x509.Certificate, alg int32, signed, signature []byte) error {
	switch alg {
	case algES256:
		pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
		if !ok {
			return trace.BadParameter("attestation certificate key type %T does not match ES256", cert.PublicKey)
		}
		digest := sha256.Sum256(signed)
		if !ecdsa.VerifyASN1(pub, digest[:], signature) {
			return trace.AccessDenied("attestation signature did not verify")
		}
	case algEdDSA:
		pub, ok := cert.PublicKey.(ed25519.PublicKey)
		if !ok {
			return trace.BadParameter("attestation certificate key type %T does not match EdDSA", cert.PublicKey)
		}
		if !ed25519.Verify(pub, signed, signature) {
			return trace.AccessDenied("attestation signature did not verify")
		}
	default:
		return trace.BadParameter("unsupported attestation algorithm %d", alg)
	}
	return nil
}

// sshPublicKey renders the credential as an openssh security key bound to
// the application.
func (k coseKey) sshPublicKey(application string) (ssh.PublicKey, error) {
	switch k.Alg {
	case algES256:
		if len(k.X) != 32 || len(k.Y) != 32 {
			return nil, trace.BadParameter("malformed EC2 credential key")
		}
		point := make([]byte, 0, 65)
		point = append(point, 0x04)
		point = append(point, k.X...)
		point = append(point, k.Y...)
		blob := ssh.Marshal(struct {
			Type        string
			Curve       string
			Point       []byte
			Application string
		}{ssh.KeyAlgoSKECDSA256, "nistp256", point, application})
		key, err := ssh.ParsePublicKey(blob)
		return key, trace.Wrap(err)
	case algEdDSA:
		if len(k.X) != ed25519.PublicKeySize {
			return nil, trace.BadParameter("malformed OKP credential key")
		}
		blob := ssh.Marshal(struct {
			Type        string
			Key         []byte
			Application string
		}{ssh.KeyAlgoSKED25519, k.X, application})
		key, err := ssh.ParsePublicKey(blob)
		return key, trace.Wrap(err)
	default:
		return nil, trace.BadParameter("unsupported credential algorithm %d", k.Alg)
	}
}
