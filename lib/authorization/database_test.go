package authorization

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	d, err := NewDatabase(DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "rustica.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func seed(t *testing.T, d *Database, query string, args ...any) {
	t.Helper()
	_, err := d.db.Exec(query, args...)
	require.NoError(t, err)
}

const fingerprint = "SHA256:0000000000000000000000000000000000000000000"

func sshRequest(certType uint32) *SSHAuthorizationRequest {
	now := uint64(time.Now().Unix())
	return &SSHAuthorizationRequest{
		Fingerprint:    fingerprint,
		MTLSIdentities: []string{"alice@example.com"},
		RequesterIP:    "192.0.2.1:50000",
		Principals:     []string{"alice"},
		ValidAfter:     now,
		ValidBefore:    now + 600,
		CertType:       certType,
		Authority:      "example",
	}
}

func TestAuthorizeSSHCert(t *testing.T) {
	d := newTestDatabase(t)

	// Unknown fingerprints are denied outright.
	_, err := d.AuthorizeSSHCert(context.Background(), sshRequest(ssh.UserCert))
	require.True(t, trace.IsAccessDenied(err))

	seed(t, d, `INSERT INTO fingerprint_permissions
		(fingerprint, principal_unrestricted, can_create_user_certs, max_creation_time)
		VALUES (?, TRUE, TRUE, 3600)`, fingerprint)

	auth, err := d.AuthorizeSSHCert(context.Background(), sshRequest(ssh.UserCert))
	require.NoError(t, err)
	assert.NotZero(t, auth.Serial)
	assert.Equal(t, []string{"alice"}, auth.Principals)
	assert.Equal(t, defaultExtensions, auth.Extensions)
	assert.Equal(t, "example", auth.Authority)
	assert.Nil(t, auth.ForceCommand)
	assert.False(t, auth.ForceSourceIP)

	// The grant does not extend to host certificates.
	_, err = d.AuthorizeSSHCert(context.Background(), sshRequest(ssh.HostCert))
	require.True(t, trace.IsAccessDenied(err))
}

func TestAuthorizeSSHCertValidityBound(t *testing.T) {
	d := newTestDatabase(t)
	seed(t, d, `INSERT INTO fingerprint_permissions
		(fingerprint, principal_unrestricted, can_create_user_certs, max_creation_time)
		VALUES (?, TRUE, TRUE, 300)`, fingerprint)

	req := sshRequest(ssh.UserCert)
	req.ValidBefore = uint64(time.Now().Unix()) + 600
	_, err := d.AuthorizeSSHCert(context.Background(), req)
	require.True(t, trace.IsAccessDenied(err))
}

func TestAuthorizeSSHCertPrincipals(t *testing.T) {
	d := newTestDatabase(t)
	seed(t, d, `INSERT INTO fingerprint_permissions
		(fingerprint, can_create_user_certs, max_creation_time)
		VALUES (?, TRUE, 3600)`, fingerprint)
	seed(t, d, `INSERT INTO fingerprint_principal_authorizations (fingerprint, principal)
		VALUES (?, 'alice')`, fingerprint)

	auth, err := d.AuthorizeSSHCert(context.Background(), sshRequest(ssh.UserCert))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, auth.Principals)

	// Any unlisted principal poisons the whole request.
	req := sshRequest(ssh.UserCert)
	req.Principals = []string{"alice", "root"}
	_, err = d.AuthorizeSSHCert(context.Background(), req)
	require.True(t, trace.IsAccessDenied(err))
}

func TestAuthorizeSSHCertHosts(t *testing.T) {
	d := newTestDatabase(t)
	seed(t, d, `INSERT INTO fingerprint_permissions
		(fingerprint, principal_unrestricted, can_create_host_certs, max_creation_time)
		VALUES (?, TRUE, TRUE, 3600)`, fingerprint)
	seed(t, d, `INSERT INTO fingerprint_host_authorizations (fingerprint, hostname)
		VALUES (?, 'web01.example.com')`, fingerprint)

	req := sshRequest(ssh.HostCert)
	req.Principals = nil
	req.Servers = []string{"web01.example.com"}
	_, err := d.AuthorizeSSHCert(context.Background(), req)
	require.NoError(t, err)

	req.Servers = []string{"db01.example.com"}
	_, err = d.AuthorizeSSHCert(context.Background(), req)
	require.True(t, trace.IsAccessDenied(err))
}

func TestAuthorizeSSHCertExtensions(t *testing.T) {
	d := newTestDatabase(t)
	seed(t, d, `INSERT INTO fingerprint_permissions
		(fingerprint, principal_unrestricted, can_create_user_certs, max_creation_time,
		 force_command, force_source_ip)
		VALUES (?, TRUE, TRUE, 3600, '/usr/bin/true', TRUE)`, fingerprint)
	seed(t, d, `INSERT INTO fingerprint_extensions (fingerprint, extension_name, extension_value)
		VALUES (?, 'permit-pty', '')`, fingerprint)

	auth, err := d.AuthorizeSSHCert(context.Background(), sshRequest(ssh.UserCert))
	require.NoError(t, err)
	// Explicit extension rows replace the defaults entirely.
	assert.Equal(t, map[string]string{"permit-pty": ""}, auth.Extensions)
	require.NotNil(t, auth.ForceCommand)
	assert.Equal(t, "/usr/bin/true", *auth.ForceCommand)
	assert.True(t, auth.ForceSourceIP)
}

func TestAuthorizeAttestedX509Cert(t *testing.T) {
	d := newTestDatabase(t)

	req := &X509AuthorizationRequest{
		MTLSIdentities: []string{"alice@example.com"},
		RequesterIP:    "192.0.2.1:50000",
		Authority:      "example",
	}
	_, err := d.AuthorizeAttestedX509Cert(context.Background(), req)
	require.True(t, trace.IsAccessDenied(err))

	seed(t, d, `INSERT INTO x509_permissions (identity, max_validity)
		VALUES ('alice@example.com', 3600)`)

	auth, err := d.AuthorizeAttestedX509Cert(context.Background(), req)
	require.NoError(t, err)
	// No explicit authority or common name: fall back to the request
	// authority and the mTLS identity.
	assert.Equal(t, "example", auth.Authority)
	assert.Equal(t, "alice@example.com", auth.CommonName)
	assert.Equal(t, auth.ValidAfter+3600, auth.ValidBefore)

	seed(t, d, `UPDATE x509_permissions
		SET authority = 'attested', common_name = 'alice'
		WHERE identity = 'alice@example.com'`)
	auth, err = d.AuthorizeAttestedX509Cert(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "attested", auth.Authority)
	assert.Equal(t, "alice", auth.CommonName)

	// More than one identity on the connection is ambiguous.
	req.MTLSIdentities = []string{"alice@example.com", "bob@example.com"}
	_, err = d.AuthorizeAttestedX509Cert(context.Background(), req)
	require.True(t, trace.IsAccessDenied(err))
}

func TestRegisterKeyAndAllowedSigners(t *testing.T) {
	d := newTestDatabase(t)

	signers, err := d.AllowedSigners(context.Background(), &AllowedSignersRequest{})
	require.NoError(t, err)
	assert.Empty(t, signers)

	err = d.RegisterKey(context.Background(), &RegisterKeyRequest{
		Fingerprint:    "SHA256:bbb",
		Pubkey:         "ssh-ed25519 AAAAbob",
		MTLSIdentities: []string{"bob@example.com"},
		RequesterIP:    "192.0.2.2:50000",
	})
	require.NoError(t, err)

	err = d.RegisterKey(context.Background(), &RegisterKeyRequest{
		Fingerprint:    "SHA256:aaa",
		Pubkey:         "ssh-ed25519 AAAAalice",
		MTLSIdentities: []string{"alice@example.com"},
		RequesterIP:    "192.0.2.1:50000",
	})
	require.NoError(t, err)

	// Registering the same fingerprint twice is refused.
	err = d.RegisterKey(context.Background(), &RegisterKeyRequest{
		Fingerprint:    "SHA256:aaa",
		Pubkey:         "ssh-ed25519 AAAAalice",
		MTLSIdentities: []string{"alice@example.com"},
	})
	require.Error(t, err)

	signers, err = d.AllowedSigners(context.Background(), &AllowedSignersRequest{})
	require.NoError(t, err)
	assert.Equal(t, []AllowedSigner{
		{Identity: "alice@example.com", Pubkey: "ssh-ed25519 AAAAalice"},
		{Identity: "bob@example.com", Pubkey: "ssh-ed25519 AAAAbob"},
	}, signers)
}
