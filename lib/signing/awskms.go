package signing

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"
)

// awsKMSSigner signs SSH certificates with asymmetric keys held in AWS KMS.
// Only SSH issuance is supported; X509 CAs need the key material locally.
type awsKMSSigner struct {
	user ssh.Signer
	host ssh.Signer
}

func newAWSKMSSigner(ctx context.Context, cfg AuthorityConfig) (*awsKMSSigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	client := kms.NewFromConfig(awsCfg)

	s := &awsKMSSigner{}
	if cfg.UserKeyID != "" {
		if s.user, err = newAWSKMSKey(ctx, client, cfg.UserKeyID, cfg.UserKeySigningAlgorithm); err != nil {
			return nil, trace.Wrap(err, "loading user key")
		}
	}
	if cfg.HostKeyID != "" {
		if s.host, err = newAWSKMSKey(ctx, client, cfg.HostKeyID, cfg.HostKeySigningAlgorithm); err != nil {
			return nil, trace.Wrap(err, "loading host key")
		}
	}
	if s.user == nil && s.host == nil {
		return nil, trace.BadParameter("aws-kms authority configures no keys")
	}
	return s, nil
}

func newAWSKMSKey(ctx context.Context, client *kms.Client, keyID, algorithm string) (ssh.Signer, error) {
	out, err := client.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	pub, err := x509.ParsePKIXPublicKey(out.PublicKey)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if _, ok := pub.(*ecdsa.PublicKey); !ok {
		return nil, trace.BadParameter("unsupported KMS key type %T, expected ECDSA", pub)
	}

	alg := types.SigningAlgorithmSpec(algorithm)
	if alg == "" {
		alg = types.SigningAlgorithmSpecEcdsaSha256
	}

	signer, err := ssh.NewSignerFromSigner(&awsKMSKey{
		client:    client,
		keyID:     keyID,
		algorithm: alg,
		public:    pub,
	})
	return signer, trace.Wrap(err)
}

// awsKMSKey adapts one KMS key to crypto.Signer. KMS receives the digest,
// not the message; ssh.NewSignerFromSigner hashes before calling Sign.
type awsKMSKey struct {
	client    *kms.Client
	keyID     string
	algorithm types.SigningAlgorithmSpec
	public    crypto.PublicKey
}

func (k *awsKMSKey) Public() crypto.PublicKey {
	return k.public
}

func (k *awsKMSKey) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	out, err := k.client.Sign(context.TODO(), &kms.SignInput{
		KeyId:            aws.String(k.keyID),
		Message:          digest,
		MessageType:      types.MessageTypeDigest,
		SigningAlgorithm: k.algorithm,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return out.Signature, nil
}

func (s *awsKMSSigner) SignSSH(ctx context.Context, cert *ssh.Certificate) error {
	signer := s.signerFor(cert.CertType)
	if signer == nil {
		return trace.NotFound("no key for certificate type %d", cert.CertType)
	}
	return trace.Wrap(cert.SignCert(rand.Reader, signer))
}

func (s *awsKMSSigner) signerFor(certType uint32) ssh.Signer {
	switch certType {
	case ssh.UserCert:
		return s.user
	case ssh.HostCert:
		return s.host
	}
	return nil
}

func (s *awsKMSSigner) SSHPublicKey(certType uint32) ssh.PublicKey {
	if signer := s.signerFor(certType); signer != nil {
		return signer.PublicKey()
	}
	return nil
}

func (s *awsKMSSigner) AttestedX509CA() (*CertificateAuthority, error) {
	return nil, trace.NotImplemented("aws-kms authorities cannot issue X509 certificates")
}

func (s *awsKMSSigner) ClientCertificateAuthority() (*CertificateAuthority, error) {
	return nil, trace.NotImplemented("aws-kms authorities cannot issue client certificates")
}
