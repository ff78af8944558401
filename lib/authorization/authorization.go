// Package authorization decides what certificates a caller may have. Two
// backends exist: a local sqlite database and a remote gRPC service. Both
// return trace errors; denials are trace.AccessDenied so the RPC layer maps
// them to the right taxonomy code.
package authorization

import (
	"context"
	"crypto/x509/pkix"

	"github.com/gravitational/trace"

	"github.com/obelisk/rustica/lib/verification"
)

// SSHAuthorizationRequest carries everything the backend may consider when
// deciding an SSH issuance request.
type SSHAuthorizationRequest struct {
	Fingerprint    string
	MTLSIdentities []string
	RequesterIP    string
	Principals     []string
	Servers        []string
	ValidBefore    uint64
	ValidAfter     uint64
	CertType       uint32
	Authority      string
}

// SSHAuthorization is a granted SSH issuance. The backend owns every field:
// the issued certificate reflects this struct, not the request.
type SSHAuthorization struct {
	Serial      uint64
	ValidBefore uint64
	ValidAfter  uint64
	Principals  []string
	Extensions  map[string]string
	// ForceCommand, when set, becomes the force-command critical option.
	ForceCommand *string
	// ForceSourceIP pins the certificate to the requester's address via the
	// source-address critical option.
	ForceSourceIP bool
	// Authority names the signing backend to use. It may differ from the
	// one the caller requested.
	Authority string
}

// X509AuthorizationRequest carries an attested X509 issuance request.
type X509AuthorizationRequest struct {
	MTLSIdentities []string
	RequesterIP    string
	Attestation    *verification.AttestedKey
	Authority      string
}

// X509Authorization is a granted attested X509 issuance.
type X509Authorization struct {
	Authority   string
	CommonName  string
	Serial      uint64
	ValidBefore uint64
	ValidAfter  uint64
	Extensions  []pkix.Extension
}

// RegisterKeyRequest records a new hardware-backed key.
type RegisterKeyRequest struct {
	Fingerprint    string
	Pubkey         string
	MTLSIdentities []string
	RequesterIP    string
	// Attestation is nil when the chain did not verify and the server is
	// configured to register such keys anyway.
	Attestation *verification.KeyAttestation
}

// AllowedSignersRequest identifies who is asking for the allowed-signers
// file.
type AllowedSignersRequest struct {
	QueryingMTLSIdentities []string
}

// AllowedSigner is one line of the allowed-signers file.
type AllowedSigner struct {
	Identity string
	Pubkey   string
}

// Authorizer is the decision backend consulted on every issuance,
// registration, and allowed-signers request.
type Authorizer interface {
	AuthorizeSSHCert(ctx context.Context, req *SSHAuthorizationRequest) (*SSHAuthorization, error)
	AuthorizeAttestedX509Cert(ctx context.Context, req *X509AuthorizationRequest) (*X509Authorization, error)
	RegisterKey(ctx context.Context, req *RegisterKeyRequest) error
	AllowedSigners(ctx context.Context, req *AllowedSignersRequest) ([]AllowedSigner, error)
}

// Config is the [authorization] section of the server configuration.
// Exactly one backend must be set.
type Config struct {
	Database *DatabaseConfig `toml:"database"`
	External *ExternalConfig `toml:"external"`
}

// New builds the configured authorizer.
func New(ctx context.Context, cfg Config) (Authorizer, error) {
	switch {
	case cfg.Database != nil && cfg.External != nil:
		return nil, trace.BadParameter("authorization configures both a database and an external backend")
	case cfg.Database != nil:
		return NewDatabase(*cfg.Database)
	case cfg.External != nil:
		return NewExternal(ctx, *cfg.External)
	default:
		return nil, trace.BadParameter("authorization configures no backend")
	}
}
