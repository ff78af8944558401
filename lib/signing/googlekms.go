package signing

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"io"

	gcpkms "cloud.google.com/go/kms/apiv1"
	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"
	kmspb "google.golang.org/genproto/googleapis/cloud/kms/v1"
)

// googleKMSSigner signs SSH certificates with asymmetric key versions held
// in Google Cloud KMS.
type googleKMSSigner struct {
	user ssh.Signer
	host ssh.Signer
}

func newGoogleKMSSigner(ctx context.Context, cfg AuthorityConfig) (*googleKMSSigner, error) {
	client, err := gcpkms.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	s := &googleKMSSigner{}
	if cfg.UserKeyName != "" {
		if s.user, err = newGoogleKMSKey(ctx, client, cfg.UserKeyName); err != nil {
			return nil, trace.Wrap(err, "loading user key")
		}
	}
	if cfg.HostKeyName != "" {
		if s.host, err = newGoogleKMSKey(ctx, client, cfg.HostKeyName); err != nil {
			return nil, trace.Wrap(err, "loading host key")
		}
	}
	if s.user == nil && s.host == nil {
		return nil, trace.BadParameter("google-kms authority configures no keys")
	}
	return s, nil
}

func newGoogleKMSKey(ctx context.Context, client *gcpkms.KeyManagementClient, name string) (ssh.Signer, error) {
	resp, err := client.GetPublicKey(ctx, &kmspb.GetPublicKeyRequest{Name: name})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	block, _ := pem.Decode([]byte(resp.Pem))
	if block == nil {
		return nil, trace.BadParameter("KMS returned no PEM public key for %q", name)
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	signer, err := ssh.NewSignerFromSigner(&googleKMSKey{
		client: client,
		name:   name,
		public: pub,
	})
	return signer, trace.Wrap(err)
}

// googleKMSKey adapts one KMS key version to crypto.Signer.
type googleKMSKey struct {
	client *gcpkms.KeyManagementClient
	name   string
	public crypto.PublicKey
}

func (k *googleKMSKey) Public() crypto.PublicKey {
	return k.public
}

func (k *googleKMSKey) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	req := &kmspb.AsymmetricSignRequest{Name: k.name}
	switch opts.HashFunc() {
	case crypto.SHA256:
		req.Digest = &kmspb.Digest{Digest: &kmspb.Digest_Sha256{Sha256: digest}}
	case crypto.SHA384:
		req.Digest = &kmspb.Digest{Digest: &kmspb.Digest_Sha384{Sha384: digest}}
	case crypto.SHA512:
		req.Digest = &kmspb.Digest{Digest: &kmspb.Digest_Sha512{Sha512: digest}}
	default:
		return nil, trace.BadParameter("unsupported digest algorithm %v", opts.HashFunc())
	}

	resp, err := k.client.AsymmetricSign(context.TODO(), req)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return resp.Signature, nil
}

func (s *googleKMSSigner) SignSSH(ctx context.Context, cert *ssh.Certificate) error {
	signer := s.signerFor(cert.CertType)
	if signer == nil {
		return trace.NotFound("no key for certificate type %d", cert.CertType)
	}
	return trace.Wrap(cert.SignCert(rand.Reader, signer))
}

func (s *googleKMSSigner) signerFor(certType uint32) ssh.Signer {
	switch certType {
	case ssh.UserCert:
		return s.user
	case ssh.HostCert:
		return s.host
	}
	return nil
}

func (s *googleKMSSigner) SSHPublicKey(certType uint32) ssh.PublicKey {
	if signer := s.signerFor(certType); signer != nil {
		return signer.PublicKey()
	}
	return nil
}

func (s *googleKMSSigner) AttestedX509CA() (*CertificateAuthority, error) {
	return nil, trace.NotImplemented("google-kms authorities cannot issue X509 certificates")
}

func (s *googleKMSSigner) ClientCertificateAuthority() (*CertificateAuthority, error) {
	return nil, trace.NotImplemented("google-kms authorities cannot issue client certificates")
}
