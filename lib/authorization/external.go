package authorization

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"strconv"
	"strings"

	"github.com/gravitational/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/obelisk/rustica/api/authpb"
)

// ExternalConfig configures the remote gRPC backend. The connection is
// mutually authenticated with dedicated client credentials.
type ExternalConfig struct {
	Server      string `toml:"server"`
	CA          string `toml:"ca"`
	Certificate string `toml:"mtls_cert"`
	Key         string `toml:"mtls_key"`
}

// External delegates every decision to a remote authorization service.
type External struct {
	client authpb.AuthorizationClient
	conn   *grpc.ClientConn
}

func NewExternal(ctx context.Context, cfg ExternalConfig) (*External, error) {
	if cfg.Server == "" {
		return nil, trace.BadParameter("missing authorization server address")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(cfg.CA)) {
		return nil, trace.BadParameter("no CA certificates parsed for the authorization server")
	}
	cert, err := tls.X509KeyPair([]byte(cfg.Certificate), []byte(cfg.Key))
	if err != nil {
		return nil, trace.Wrap(err, "parsing authorization client credentials")
	}

	conn, err := grpc.DialContext(ctx, cfg.Server,
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{
			Certificates: []tls.Certificate{cert},
			RootCAs:      pool,
		})))
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &External{
		client: authpb.NewAuthorizationClient(conn),
		conn:   conn,
	}, nil
}

func (e *External) Close() error {
	return trace.Wrap(e.conn.Close())
}

func (e *External) AuthorizeSSHCert(ctx context.Context, req *SSHAuthorizationRequest) (*SSHAuthorization, error) {
	resp, err := e.client.AuthorizeSSH(ctx, &authpb.AuthorizeSSHRequest{
		Fingerprint:    req.Fingerprint,
		MtlsIdentities: req.MTLSIdentities,
		RequesterIp:    req.RequesterIP,
		Principals:     req.Principals,
		Servers:        req.Servers,
		ValidBefore:    req.ValidBefore,
		ValidAfter:     req.ValidAfter,
		CertType:       req.CertType,
		Authority:      req.Authority,
	})
	if err != nil {
		return nil, trace.AccessDenied("authorization server denied the request: %v", err)
	}

	auth := &SSHAuthorization{
		Serial:        resp.Serial,
		ValidBefore:   resp.ValidBefore,
		ValidAfter:    resp.ValidAfter,
		Principals:    resp.Principals,
		Extensions:    resp.Extensions,
		ForceSourceIP: resp.ForceSourceIp,
		Authority:     resp.Authority,
	}
	if resp.HasForceCommand {
		cmd := resp.ForceCommand
		auth.ForceCommand = &cmd
	}
	if auth.Authority == "" {
		auth.Authority = req.Authority
	}
	return auth, nil
}

func (e *External) AuthorizeAttestedX509Cert(ctx context.Context, req *X509AuthorizationRequest) (*X509Authorization, error) {
	pbReq := &authpb.AuthorizeAttestedX509Request{
		MtlsIdentities: req.MTLSIdentities,
		RequesterIp:    req.RequesterIP,
		Authority:      req.Authority,
	}
	if att := req.Attestation; att != nil {
		pbReq.KeyFingerprint = att.Fingerprint
		if att.Attestation != nil {
			pbReq.Attestation = att.Attestation.Certificate
			pbReq.AttestationIntermediate = att.Attestation.Intermediate
		}
	}

	resp, err := e.client.AuthorizeAttestedX509(ctx, pbReq)
	if err != nil {
		return nil, trace.AccessDenied("authorization server denied the request: %v", err)
	}

	extensions := make([]pkix.Extension, 0, len(resp.Extensions))
	for _, ext := range resp.Extensions {
		oid, err := parseOID(ext.Oid)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		extensions = append(extensions, pkix.Extension{Id: oid, Value: ext.Value})
	}

	return &X509Authorization{
		Authority:   resp.Authority,
		CommonName:  resp.CommonName,
		Serial:      resp.Serial,
		ValidBefore: resp.ValidBefore,
		ValidAfter:  resp.ValidAfter,
		Extensions:  extensions,
	}, nil
}

func (e *External) RegisterKey(ctx context.Context, req *RegisterKeyRequest) error {
	pbReq := &authpb.RegisterKeyRequest{
		Fingerprint:    req.Fingerprint,
		Pubkey:         req.Pubkey,
		MtlsIdentities: req.MTLSIdentities,
		RequesterIp:    req.RequesterIP,
	}
	if req.Attestation != nil {
		pbReq.Attestation = req.Attestation.Certificate
	}
	_, err := e.client.RegisterKey(ctx, pbReq)
	return trace.Wrap(err)
}

func (e *External) AllowedSigners(ctx context.Context, req *AllowedSignersRequest) ([]AllowedSigner, error) {
	resp, err := e.client.AllowedSigners(ctx, &authpb.AllowedSignersRequest{})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	signers := make([]AllowedSigner, 0, len(resp.AllowedSigners))
	for _, signer := range resp.AllowedSigners {
		signers = append(signers, AllowedSigner{
			Identity: signer.Identity,
			Pubkey:   signer.Pubkey,
		})
	}
	return signers, nil
}

func parseOID(s string) (asn1.ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	oid := make(asn1.ObjectIdentifier, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, trace.BadParameter("invalid OID %q", s)
		}
		oid = append(oid, n)
	}
	return oid, nil
}
