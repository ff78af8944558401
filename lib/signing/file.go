package signing

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"

	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"
)

// fileSigner keeps its CA keys in memory, loaded from PEM material embedded
// in the configuration.
type fileSigner struct {
	user     ssh.Signer
	host     ssh.Signer
	x509CA   *CertificateAuthority
	clientCA *CertificateAuthority
}

func newFileSigner(cfg AuthorityConfig) (*fileSigner, error) {
	s := &fileSigner{}

	var err error
	if cfg.UserKey != "" {
		if s.user, err = ssh.ParsePrivateKey([]byte(cfg.UserKey)); err != nil {
			return nil, trace.Wrap(err, "parsing user key")
		}
	}
	if cfg.HostKey != "" {
		if s.host, err = ssh.ParsePrivateKey([]byte(cfg.HostKey)); err != nil {
			return nil, trace.Wrap(err, "parsing host key")
		}
	}
	if cfg.X509Certificate != "" || cfg.X509Key != "" {
		if s.x509CA, err = parseCertificateAuthority(cfg.X509Certificate, cfg.X509Key); err != nil {
			return nil, trace.Wrap(err, "parsing x509 CA")
		}
	}
	if cfg.ClientCertificate != "" || cfg.ClientKey != "" {
		if s.clientCA, err = parseCertificateAuthority(cfg.ClientCertificate, cfg.ClientKey); err != nil {
			return nil, trace.Wrap(err, "parsing client CA")
		}
	}

	if s.user == nil && s.host == nil && s.x509CA == nil && s.clientCA == nil {
		return nil, trace.BadParameter("file authority configures no keys")
	}
	return s, nil
}

func parseCertificateAuthority(certPEM, keyPEM string) (*CertificateAuthority, error) {
	certBlock, _ := pem.Decode([]byte(certPEM))
	if certBlock == nil {
		return nil, trace.BadParameter("no PEM certificate found")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	keyBlock, _ := pem.Decode([]byte(keyPEM))
	if keyBlock == nil {
		return nil, trace.BadParameter("no PEM private key found")
	}
	key, err := parsePrivateKey(keyBlock)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &CertificateAuthority{Certificate: cert, Signer: key}, nil
}

func parsePrivateKey(block *pem.Block) (crypto.Signer, error) {
	var key any
	var err error
	switch block.Type {
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	default:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, trace.BadParameter("key type %T cannot sign", key)
	}
	return signer, nil
}

func (s *fileSigner) SignSSH(ctx context.Context, cert *ssh.Certificate) error {
	signer := s.signerFor(cert.CertType)
	if signer == nil {
		return trace.NotFound("no key for certificate type %d", cert.CertType)
	}
	return trace.Wrap(cert.SignCert(rand.Reader, signer))
}

func (s *fileSigner) signerFor(certType uint32) ssh.Signer {
	switch certType {
	case ssh.UserCert:
		return s.user
	case ssh.HostCert:
		return s.host
	}
	return nil
}

func (s *fileSigner) SSHPublicKey(certType uint32) ssh.PublicKey {
	if signer := s.signerFor(certType); signer != nil {
		return signer.PublicKey()
	}
	return nil
}

func (s *fileSigner) AttestedX509CA() (*CertificateAuthority, error) {
	if s.x509CA == nil {
		return nil, trace.NotFound("authority has no attested X509 CA")
	}
	return s.x509CA, nil
}

func (s *fileSigner) ClientCertificateAuthority() (*CertificateAuthority, error) {
	if s.clientCA == nil {
		return nil, trace.NotFound("authority has no client CA")
	}
	return s.clientCA, nil
}
