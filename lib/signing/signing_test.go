package signing

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func sshKeyPEM(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	return string(pem.EncodeToMemory(block))
}

func caPEM(t *testing.T) (certPEM, keyPEM string) {
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

func TestRegistryInvariants(t *testing.T) {
	sharedKey := sshKeyPEM(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "default authority not configured",
			cfg: Config{
				DefaultAuthority: "missing",
				Authorities: map[string]AuthorityConfig{
					"example": {UserKey: sshKeyPEM(t)},
				},
			},
		},
		{
			name: "default authority cannot sign user certificates",
			cfg: Config{
				DefaultAuthority: "hostonly",
				Authorities: map[string]AuthorityConfig{
					"hostonly": {HostKey: sshKeyPEM(t)},
				},
			},
		},
		{
			name: "same key for user and host certificates",
			cfg: Config{
				DefaultAuthority: "example",
				Authorities: map[string]AuthorityConfig{
					"example": {UserKey: sharedKey, HostKey: sharedKey},
				},
			},
		},
		{
			name: "key shared across authorities",
			cfg: Config{
				DefaultAuthority: "one",
				Authorities: map[string]AuthorityConfig{
					"one": {UserKey: sharedKey},
					"two": {UserKey: sharedKey},
				},
			},
		},
		{
			name: "missing default_authority",
			cfg: Config{
				Authorities: map[string]AuthorityConfig{
					"example": {UserKey: sshKeyPEM(t)},
				},
			},
		},
		{
			name: "unknown backend kind",
			cfg: Config{
				DefaultAuthority: "example",
				Authorities: map[string]AuthorityConfig{
					"example": {Kind: "vault", UserKey: sshKeyPEM(t)},
				},
			},
		},
		{
			name: "file authority with no keys",
			cfg: Config{
				DefaultAuthority: "example",
				Authorities: map[string]AuthorityConfig{
					"example": {},
				},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(context.Background(), tc.cfg)
			require.Error(t, err)
		})
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	caCert, caKey := caPEM(t)
	registry, err := NewRegistry(context.Background(), Config{
		DefaultAuthority: "example",
		Authorities: map[string]AuthorityConfig{
			"example": {
				UserKey:           sshKeyPEM(t),
				HostKey:           sshKeyPEM(t),
				ClientCertificate: caCert,
				ClientKey:         caKey,
			},
			"secondary": {
				UserKey: sshKeyPEM(t),
			},
		},
	})
	require.NoError(t, err)
	return registry
}

func TestRegistrySignSSH(t *testing.T) {
	registry := newTestRegistry(t)
	_, subjectPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	subject, err := ssh.NewSignerFromSigner(subjectPriv)
	require.NoError(t, err)

	for _, certType := range []uint32{ssh.UserCert, ssh.HostCert} {
		cert := &ssh.Certificate{
			Key:         subject.PublicKey(),
			Serial:      7,
			CertType:    certType,
			KeyId:       "test",
			ValidAfter:  1000,
			ValidBefore: 2000,
		}
		require.NoError(t, registry.SignSSH(context.Background(), "example", cert))

		caKey, err := registry.SignerPublicKey("example", certType)
		require.NoError(t, err)
		assert.Equal(t, ssh.FingerprintSHA256(caKey), ssh.FingerprintSHA256(cert.SignatureKey))

		// The signature must verify against the serialized certificate.
		checker := &ssh.CertChecker{
			Clock: func() time.Time { return time.Unix(1500, 0) },
			IsUserAuthority: func(auth ssh.PublicKey) bool {
				return ssh.FingerprintSHA256(auth) == ssh.FingerprintSHA256(caKey)
			},
			IsHostAuthority: func(auth ssh.PublicKey, _ string) bool {
				return ssh.FingerprintSHA256(auth) == ssh.FingerprintSHA256(caKey)
			},
		}
		assert.NoError(t, checker.CheckCert("test", cert))
	}

	// The secondary authority has no host key.
	cert := &ssh.Certificate{
		Key:      subject.PublicKey(),
		CertType: ssh.HostCert,
	}
	err = registry.SignSSH(context.Background(), "secondary", cert)
	require.Error(t, err)

	err = registry.SignSSH(context.Background(), "nonexistent", cert)
	require.True(t, trace.IsNotFound(err))
}

func TestRegistryAccessors(t *testing.T) {
	registry := newTestRegistry(t)

	assert.Equal(t, "example", registry.DefaultAuthority())
	assert.Equal(t, []string{"example", "secondary"}, registry.Authorities())

	_, err := registry.SignerPublicKey("secondary", ssh.HostCert)
	require.True(t, trace.IsNotFound(err))

	_, err = registry.ClientCertificateAuthority("example")
	require.NoError(t, err)
	_, err = registry.ClientCertificateAuthority("secondary")
	require.True(t, trace.IsNotFound(err))
	_, err = registry.AttestedX509CA("example")
	require.True(t, trace.IsNotFound(err))
}

func TestIssueClientCertificate(t *testing.T) {
	registry := newTestRegistry(t)
	ca, err := registry.ClientCertificateAuthority("example")
	require.NoError(t, err)

	notBefore := time.Unix(1700000000, 0)
	notAfter := notBefore.Add(24 * time.Hour)
	certPEM, keyPEM, err := ca.IssueClientCertificate(rand.Reader, "alice@example.com", notBefore, notAfter)
	require.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", cert.Subject.CommonName)
	assert.Equal(t, notBefore.Unix(), cert.NotBefore.Unix())
	assert.Equal(t, notAfter.Unix(), cert.NotAfter.Unix())
	assert.Equal(t, x509.KeyUsageDigitalSignature, cert.KeyUsage)
	assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}, cert.ExtKeyUsage)
	assert.Empty(t, cert.DNSNames)
	require.NoError(t, cert.CheckSignatureFrom(ca.Certificate))

	keyBlock, _ := pem.Decode(keyPEM)
	require.NotNil(t, keyBlock)
	key, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	require.NoError(t, err)

	// The returned key matches the certificate.
	ecKey, ok := key.(*ecdsa.PrivateKey)
	require.True(t, ok)
	assert.True(t, ecKey.PublicKey.Equal(cert.PublicKey))
}

func TestRegistryString(t *testing.T) {
	registry := newTestRegistry(t)
	dump := registry.String()
	assert.Contains(t, dump, `authority "example" (default):`)
	assert.Contains(t, dump, `authority "secondary":`)
	assert.Contains(t, dump, "user CA: SHA256:")
}
