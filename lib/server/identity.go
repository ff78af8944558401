package server

import (
	"context"
	"crypto/x509"
	"encoding/asn1"
	"net"

	"github.com/gravitational/trace"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

// commonNameOID is the X.509 CommonName attribute (2.5.4.3). The CommonName
// values of the peer's leaf certificate are the caller's identities.
var commonNameOID = asn1.ObjectIdentifier{2, 5, 4, 3}

// peerInfo is everything the handlers need to know about the mTLS peer:
// who they are and when their client certificate stops working.
type peerInfo struct {
	addr       net.Addr
	certs      []*x509.Certificate
	identities []string
	notAfter   int64
}

// peerFromContext pulls the peer's address and verified certificate chain
// out of the gRPC transport. Requests that somehow arrive without a peer or
// without TLS state are rejected outright.
func peerFromContext(ctx context.Context) (*peerInfo, error) {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return nil, trace.AccessDenied("no peer information on request")
	}
	tlsInfo, ok := p.AuthInfo.(credentials.TLSInfo)
	if !ok {
		return nil, trace.AccessDenied("connection is not TLS")
	}
	certs := tlsInfo.State.PeerCertificates
	if len(certs) == 0 {
		return nil, trace.AccessDenied("no peer certificate presented")
	}

	identities, err := extractIdentities(certs[0])
	if err != nil {
		return nil, trace.Wrap(err)
	}

	return &peerInfo{
		addr:       p.Addr,
		certs:      certs,
		identities: identities,
		notAfter:   certs[0].NotAfter.Unix(),
	}, nil
}

// extractIdentities returns all CommonName values from the certificate
// subject in insertion order. A CommonName that did not decode to a string
// is treated as a forgery attempt.
func extractIdentities(cert *x509.Certificate) ([]string, error) {
	var identities []string
	for _, attr := range cert.Subject.Names {
		if !attr.Type.Equal(commonNameOID) {
			continue
		}
		value, ok := attr.Value.(string)
		if !ok {
			return nil, trace.AccessDenied("peer certificate has a non-string common name")
		}
		identities = append(identities, value)
	}
	return identities, nil
}

func requesterIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
