package server

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gravitational/trace"

	"github.com/obelisk/rustica/api/rusticapb"
	"github.com/obelisk/rustica/lib/authorization"
	"github.com/obelisk/rustica/lib/logging"
)

// AttestedX509Certificate issues a client X509 certificate for a hardware
// attested key. The caller's CSR contributes only its public key; every
// security relevant field is replaced with values from the authorization
// backend.
func (s *Server) AttestedX509Certificate(ctx context.Context, req *rusticapb.AttestedX509CertificateRequest) (*rusticapb.AttestedX509CertificateResponse, error) {
	info, err := peerFromContext(ctx)
	if err != nil {
		return x509ErrorResponse(withCode(CodeBadRequest, err)), nil
	}
	if len(info.certs) != 1 {
		return x509ErrorResponse(withCode(CodeNotAuthorized,
			trace.AccessDenied("exactly one peer certificate required"))), nil
	}

	attested, err := s.pivVerify(req.Attestation, req.AttestationIntermediate)
	if err != nil {
		log.Warnf("Attestation chain verification failed from [%s]: %v",
			strings.Join(info.identities, ","), err)
		return x509ErrorResponse(withCode(CodeInvalidKey, err)), nil
	}

	authority := req.KeyId
	if authority == "" {
		authority = s.registry.DefaultAuthority()
	}

	auth, err := s.authorizer.AuthorizeAttestedX509Cert(ctx, &authorization.X509AuthorizationRequest{
		MTLSIdentities: info.identities,
		RequesterIP:    info.addr.String(),
		Attestation:    attested,
		Authority:      authority,
	})
	if err != nil {
		return x509ErrorResponse(err), nil
	}

	csr, err := x509.ParseCertificateRequest(req.Csr)
	if err != nil {
		return x509ErrorResponse(withCode(CodeBadRequest, err)), nil
	}
	if err := csr.CheckSignature(); err != nil {
		return x509ErrorResponse(withCode(CodeBadRequest, err)), nil
	}

	// The serial travels as the authorization value's little-endian bytes.
	serialBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(serialBytes, auth.Serial)

	template := &x509.Certificate{
		SerialNumber: new(big.Int).SetBytes(serialBytes),
		Subject: pkix.Name{
			Organization: []string{fmt.Sprintf("Rustica-%s", auth.Authority)},
			CommonName:   auth.CommonName,
		},
		NotBefore:             time.Unix(int64(auth.ValidAfter), 0),
		NotAfter:              time.Unix(int64(auth.ValidBefore), 0),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		EmailAddresses:        []string{auth.CommonName},
		ExtraExtensions:       auth.Extensions,
	}

	ca, err := s.registry.AttestedX509CA(auth.Authority)
	if err != nil {
		return x509ErrorResponse(withCode(CodeNotAuthorized, err)), nil
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, ca.Certificate, csr.PublicKey, ca.Signer)
	if err != nil {
		log.Errorf("Creating attested X509 certificate failed: %v", err)
		return x509ErrorResponse(withCode(CodeUnknown, err)), nil
	}

	// The template never sees the attested public key directly, so confirm
	// after the fact that the issued certificate carries exactly the key
	// the hardware attested to.
	issued, err := x509.ParseCertificate(certDER)
	if err != nil {
		return x509ErrorResponse(withCode(CodeUnknown, err)), nil
	}
	leaf, err := x509.ParseCertificate(req.Attestation)
	if err != nil {
		return x509ErrorResponse(withCode(CodeInvalidKey, err)), nil
	}
	if !bytes.Equal(issued.RawSubjectPublicKeyInfo, leaf.RawSubjectPublicKeyInfo) {
		log.Warnf("Issued certificate public key does not match attestation from [%s]",
			strings.Join(info.identities, ","))
		return x509ErrorResponse(withCode(CodeInvalidKey,
			trace.BadParameter("certificate key does not match attestation"))), nil
	}

	s.events.Send(logging.Event{X509CertificateIssued: &logging.X509CertificateIssued{
		Authority:      auth.Authority,
		CommonName:     auth.CommonName,
		Serial:         auth.Serial,
		MTLSIdentities: info.identities,
		ValidAfter:     auth.ValidAfter,
		ValidBefore:    auth.ValidBefore,
	}})
	x509CertificatesIssued.Inc()

	return &rusticapb.AttestedX509CertificateResponse{
		Certificate: certDER,
		ErrorCode:   int64(CodeSuccess),
	}, nil
}
