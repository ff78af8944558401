// Package signing manages the certificate authorities Rustica issues from.
// Each named authority is backed by one signing backend (file, yubikey, AWS
// KMS, or Google Cloud KMS) holding up to four keys: an SSH user CA, an SSH
// host CA, an attested X509 CA, and a client mTLS CA.
package signing

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

var log = logrus.WithFields(logrus.Fields{
	trace.Component: "rustica:signing",
})

// Signer is one signing backend serving a single named authority.
type Signer interface {
	// SignSSH signs the certificate in place. The certificate's Signature
	// and SignatureKey fields are set on success.
	SignSSH(ctx context.Context, cert *ssh.Certificate) error
	// SSHPublicKey returns the CA public key for the given certificate
	// type, or nil when the backend has no key for that type.
	SSHPublicKey(certType uint32) ssh.PublicKey
	// AttestedX509CA returns the CA used for attested X509 issuance, or an
	// error when the backend does not carry one.
	AttestedX509CA() (*CertificateAuthority, error)
	// ClientCertificateAuthority returns the CA used to reissue client
	// mTLS certificates, or an error when the backend does not carry one.
	ClientCertificateAuthority() (*CertificateAuthority, error)
}

// CertificateAuthority is an X509 CA certificate together with its signing
// key.
type CertificateAuthority struct {
	Certificate *x509.Certificate
	Signer      crypto.Signer
}

// IssueClientCertificate mints a fresh ECDSA P-256 keypair and a SAN-less
// client certificate for it, returning both PEM encoded.
func (ca *CertificateAuthority) IssueClientCertificate(random io.Reader, commonName string, notBefore, notAfter time.Time) (certPEM, keyPEM []byte, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), random)
	if err != nil {
		return nil, nil, trace.Wrap(err)
	}

	serial, err := rand.Int(random, new(big.Int).Lsh(big.NewInt(1), 64))
	if err != nil {
		return nil, nil, trace.Wrap(err)
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(random, template, ca.Certificate, key.Public(), ca.Signer)
	if err != nil {
		return nil, nil, trace.Wrap(err)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, trace.Wrap(err)
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}

// Registry holds every configured authority, validated once at startup.
type Registry struct {
	defaultAuthority string
	signers          map[string]Signer
}

// Config is the [signing] section of the server configuration. Authority
// backend settings are flat; Kind selects which fields apply.
type Config struct {
	DefaultAuthority string                     `toml:"default_authority"`
	Authorities      map[string]AuthorityConfig `toml:"authorities"`
}

// AuthorityConfig configures one signing backend.
type AuthorityConfig struct {
	Kind string `toml:"kind"`

	// File backend: PEM encoded private keys and certificates.
	UserKey           string `toml:"user_key"`
	HostKey           string `toml:"host_key"`
	X509Certificate   string `toml:"x509_certificate"`
	X509Key           string `toml:"x509_key"`
	ClientCertificate string `toml:"client_certificate"`
	ClientKey         string `toml:"client_key"`

	// Yubikey backend.
	UserSlot string `toml:"user_slot"`
	HostSlot string `toml:"host_slot"`
	PIN      string `toml:"pin"`

	// AWS KMS backend.
	AWSRegion               string `toml:"aws_region"`
	UserKeyID               string `toml:"user_key_id"`
	UserKeySigningAlgorithm string `toml:"user_key_signing_algorithm"`
	HostKeyID               string `toml:"host_key_id"`
	HostKeySigningAlgorithm string `toml:"host_key_signing_algorithm"`

	// Google Cloud KMS backend.
	UserKeyName string `toml:"user_key_name"`
	HostKeyName string `toml:"host_key_name"`
}

// NewRegistry builds every configured backend and enforces the registry
// invariants. Violations are fatal: a misconfigured CA must never serve.
func NewRegistry(ctx context.Context, cfg Config) (*Registry, error) {
	if cfg.DefaultAuthority == "" {
		return nil, trace.BadParameter("missing default_authority")
	}

	signers := make(map[string]Signer, len(cfg.Authorities))
	for name, authority := range cfg.Authorities {
		signer, err := newSigner(ctx, authority)
		if err != nil {
			return nil, trace.Wrap(err, "configuring authority %q", name)
		}
		signers[name] = signer
	}

	r := &Registry{
		defaultAuthority: cfg.DefaultAuthority,
		signers:          signers,
	}
	if err := r.validate(); err != nil {
		return nil, trace.Wrap(err)
	}
	return r, nil
}

func newSigner(ctx context.Context, cfg AuthorityConfig) (Signer, error) {
	switch cfg.Kind {
	case "", "file":
		return newFileSigner(cfg)
	case "yubikey":
		return newYubikeySigner(cfg)
	case "aws-kms":
		return newAWSKMSSigner(ctx, cfg)
	case "google-kms":
		return newGoogleKMSSigner(ctx, cfg)
	default:
		return nil, trace.BadParameter("unknown signing backend kind %q", cfg.Kind)
	}
}

// validate enforces the startup invariants: the default authority exists and
// can sign user certificates, no authority uses the same key for user and
// host signing, and no CA key appears under two authorities.
func (r *Registry) validate() error {
	def, ok := r.signers[r.defaultAuthority]
	if !ok {
		return trace.BadParameter("default authority %q is not configured", r.defaultAuthority)
	}
	if def.SSHPublicKey(ssh.UserCert) == nil {
		return trace.BadParameter("default authority %q cannot sign user certificates", r.defaultAuthority)
	}

	seen := make(map[string]string)
	for _, name := range r.Authorities() {
		signer := r.signers[name]
		user := signer.SSHPublicKey(ssh.UserCert)
		host := signer.SSHPublicKey(ssh.HostCert)
		if user != nil && host != nil &&
			ssh.FingerprintSHA256(user) == ssh.FingerprintSHA256(host) {
			return trace.BadParameter("authority %q uses the same key for user and host certificates", name)
		}
		for _, key := range []ssh.PublicKey{user, host} {
			if key == nil {
				continue
			}
			fp := ssh.FingerprintSHA256(key)
			if other, dup := seen[fp]; dup && other != name {
				return trace.BadParameter("authorities %q and %q share the key %s", other, name, fp)
			}
			seen[fp] = name
		}
	}
	return nil
}

// SignSSH signs the certificate with the named authority.
func (r *Registry) SignSSH(ctx context.Context, authority string, cert *ssh.Certificate) error {
	signer, ok := r.signers[authority]
	if !ok {
		return trace.NotFound("unknown authority %q", authority)
	}
	return trace.Wrap(signer.SignSSH(ctx, cert))
}

// SignerPublicKey returns the CA public key of the named authority for the
// given certificate type.
func (r *Registry) SignerPublicKey(authority string, certType uint32) (ssh.PublicKey, error) {
	signer, ok := r.signers[authority]
	if !ok {
		return nil, trace.NotFound("unknown authority %q", authority)
	}
	key := signer.SSHPublicKey(certType)
	if key == nil {
		return nil, trace.NotFound("authority %q has no key for certificate type %d", authority, certType)
	}
	return key, nil
}

// AttestedX509CA returns the attested X509 CA of the named authority.
func (r *Registry) AttestedX509CA(authority string) (*CertificateAuthority, error) {
	signer, ok := r.signers[authority]
	if !ok {
		return nil, trace.NotFound("unknown authority %q", authority)
	}
	ca, err := signer.AttestedX509CA()
	return ca, trace.Wrap(err)
}

// ClientCertificateAuthority returns the client mTLS CA of the named
// authority.
func (r *Registry) ClientCertificateAuthority(authority string) (*CertificateAuthority, error) {
	signer, ok := r.signers[authority]
	if !ok {
		return nil, trace.NotFound("unknown authority %q", authority)
	}
	ca, err := signer.ClientCertificateAuthority()
	return ca, trace.Wrap(err)
}

// DefaultAuthority returns the name used when requests leave key_id empty.
func (r *Registry) DefaultAuthority() string {
	return r.defaultAuthority
}

// Authorities returns every configured authority name, sorted.
func (r *Registry) Authorities() []string {
	names := make([]string, 0, len(r.signers))
	for name := range r.signers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the registry for the startup log: every authority with the
// fingerprints of its CA keys.
func (r *Registry) String() string {
	var sb strings.Builder
	for _, name := range r.Authorities() {
		signer := r.signers[name]
		fmt.Fprintf(&sb, "authority %q", name)
		if name == r.defaultAuthority {
			sb.WriteString(" (default)")
		}
		sb.WriteString(":\n")
		if key := signer.SSHPublicKey(ssh.UserCert); key != nil {
			fmt.Fprintf(&sb, "  user CA: %s\n", ssh.FingerprintSHA256(key))
		}
		if key := signer.SSHPublicKey(ssh.HostCert); key != nil {
			fmt.Fprintf(&sb, "  host CA: %s\n", ssh.FingerprintSHA256(key))
		}
		if ca, err := signer.AttestedX509CA(); err == nil {
			fmt.Fprintf(&sb, "  attested X509 CA: %s\n", ca.Certificate.Subject)
		}
		if ca, err := signer.ClientCertificateAuthority(); err == nil {
			fmt.Fprintf(&sb, "  client CA: %s\n", ca.Certificate.Subject)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
