package verification

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/binary"
	"math/big"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

const testApplication = "ssh:RusticaTest"

// buildAuthData assembles FIDO2 authenticator data carrying the given
// credential public key.
func buildAuthData(t *testing.T, application string, credentialKey any) []byte {
	t.Helper()
	coseBytes, err := cbor.Marshal(credentialKey)
	require.NoError(t, err)

	rpIDHash := sha256.Sum256([]byte(application))
	authData := make([]byte, 0, 37+16+2+16+len(coseBytes))
	authData = append(authData, rpIDHash[:]...)
	authData = append(authData, 0x41) // user present + attested credential
	authData = append(authData, 0, 0, 0, 1)

	var aaguid [16]byte
	authData = append(authData, aaguid[:]...)
	credID := []byte("0123456789abcdef")
	var credIDLen [2]byte
	binary.BigEndian.PutUint16(credIDLen[:], uint16(len(credID)))
	authData = append(authData, credIDLen[:]...)
	authData = append(authData, credID...)
	return append(authData, coseBytes...)
}

// attestationCert self-signs a certificate for the given attestation key so
// the signature over authData can be verified against it.
func attestationCert(t *testing.T, pub any, priv any) []byte {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "U2F Attestation"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, pub, priv)
	require.NoError(t, err)
	return der
}

func es256Request(t *testing.T) U2FAttestationRequest {
	t.Helper()
	credKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	cose := coseKey{
		Kty: 2,
		Alg: algES256,
		Crv: 1,
		X:   credKey.X.FillBytes(make([]byte, 32)),
		Y:   credKey.Y.FillBytes(make([]byte, 32)),
	}
	authData := buildAuthData(t, testApplication, cose)

	attKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	challenge := []byte("registration challenge")
	clientDataHash := sha256.Sum256(challenge)
	digest := sha256.Sum256(append(append([]byte{}, authData...), clientDataHash[:]...))
	signature, err := ecdsa.SignASN1(rand.Reader, attKey, digest[:])
	require.NoError(t, err)

	return U2FAttestationRequest{
		AuthData:          authData,
		AuthDataSignature: signature,
		Intermediate:      attestationCert(t, attKey.Public(), attKey),
		Alg:               algES256,
		Challenge:         challenge,
		Application:       testApplication,
	}
}

func TestVerifyU2FES256(t *testing.T) {
	attested, err := VerifyU2FCertificateChain(es256Request(t))
	require.NoError(t, err)
	assert.Equal(t, ssh.KeyAlgoSKECDSA256, attested.PublicKey.Type())
	assert.Equal(t, ssh.FingerprintSHA256(attested.PublicKey), attested.Fingerprint)
	require.NotNil(t, attested.Attestation)
	assert.NotEmpty(t, attested.Attestation.AuthData)
}

func TestVerifyU2FES256HashedChallenge(t *testing.T) {
	req := es256Request(t)
	sum := sha256.Sum256(req.Challenge)
	req.Challenge = sum[:]
	req.ChallengeHashed = true
	_, err := VerifyU2FCertificateChain(req)
	require.NoError(t, err)
}

func TestVerifyU2FEdDSA(t *testing.T) {
	credPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	cose := coseKey{
		Kty: 1,
		Alg: algEdDSA,
		Crv: 6,
		X:   credPub,
	}
	authData := buildAuthData(t, testApplication, cose)

	attPub, attPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	challenge := []byte("registration challenge")
	clientDataHash := sha256.Sum256(challenge)
	signature := ed25519.Sign(attPriv, append(append([]byte{}, authData...), clientDataHash[:]...))

	attested, err := VerifyU2FCertificateChain(U2FAttestationRequest{
		AuthData:          authData,
		AuthDataSignature: signature,
		Intermediate:      attestationCert(t, attPub, attPriv),
		Alg:               algEdDSA,
		Challenge:         challenge,
		Application:       testApplication,
	})
	require.NoError(t, err)
	assert.Equal(t, ssh.KeyAlgoSKED25519, attested.PublicKey.Type())
}

func TestVerifyU2FRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*U2FAttestationRequest)
	}{
		{
			name: "wrong application",
			mutate: func(req *U2FAttestationRequest) {
				req.Application = "ssh:SomethingElse"
			},
		},
		{
			name: "tampered authenticator data",
			mutate: func(req *U2FAttestationRequest) {
				req.AuthData[33] ^= 0xff // counter byte: signature no longer matches
			},
		},
		{
			name: "tampered challenge",
			mutate: func(req *U2FAttestationRequest) {
				req.Challenge = []byte("a different challenge")
			},
		},
		{
			name: "no attested credential flag",
			mutate: func(req *U2FAttestationRequest) {
				req.AuthData[32] = 0x01
			},
		},
		{
			name: "truncated authenticator data",
			mutate: func(req *U2FAttestationRequest) {
				req.AuthData = req.AuthData[:20]
			},
		},
		{
			name: "unsupported algorithm",
			mutate: func(req *U2FAttestationRequest) {
				req.Alg = -257
			},
		},
		{
			name: "garbage attestation certificate",
			mutate: func(req *U2FAttestationRequest) {
				req.Intermediate = []byte("not a certificate")
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := es256Request(t)
			tc.mutate(&req)
			_, err := VerifyU2FCertificateChain(req)
			require.Error(t, err)
		})
	}
}

func TestVerifyPIVRejectsUntrustedChain(t *testing.T) {
	// A chain that does not anchor at the Yubico PIV root must not verify,
	// even when the certificates themselves are well formed.
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Fake Attestation"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)

	_, err = VerifyPIVCertificateChain(der, der)
	require.Error(t, err)

	_, err = VerifyPIVCertificateChain([]byte("garbage"), der)
	require.Error(t, err)
	_, err = VerifyPIVCertificateChain(der, []byte("garbage"))
	require.Error(t, err)
}
