package authorization

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/binary"
	"time"

	"github.com/gravitational/trace"
	_ "github.com/mattn/go-sqlite3"
)

// defaultExtensions is applied to user certificates whose fingerprint has no
// explicit extension rows.
var defaultExtensions = map[string]string{
	"permit-X11-forwarding":   "",
	"permit-agent-forwarding": "",
	"permit-port-forwarding":  "",
	"permit-pty":              "",
	"permit-user-rc":          "",
}

const schema = `
CREATE TABLE IF NOT EXISTS registered_keys (
	fingerprint TEXT PRIMARY KEY,
	pubkey TEXT NOT NULL,
	user TEXT NOT NULL,
	firmware TEXT,
	hsm_serial TEXT,
	touch_policy INTEGER,
	pin_policy INTEGER,
	attestation_certificate TEXT,
	attestation_intermediate TEXT
);
CREATE TABLE IF NOT EXISTS fingerprint_permissions (
	fingerprint TEXT PRIMARY KEY,
	host_unrestricted BOOLEAN NOT NULL DEFAULT FALSE,
	principal_unrestricted BOOLEAN NOT NULL DEFAULT FALSE,
	can_create_host_certs BOOLEAN NOT NULL DEFAULT FALSE,
	can_create_user_certs BOOLEAN NOT NULL DEFAULT FALSE,
	max_creation_time INTEGER NOT NULL DEFAULT 3600,
	force_command TEXT,
	force_source_ip BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS fingerprint_principal_authorizations (
	fingerprint TEXT NOT NULL,
	principal TEXT NOT NULL,
	UNIQUE(fingerprint, principal)
);
CREATE TABLE IF NOT EXISTS fingerprint_host_authorizations (
	fingerprint TEXT NOT NULL,
	hostname TEXT NOT NULL,
	UNIQUE(fingerprint, hostname)
);
CREATE TABLE IF NOT EXISTS fingerprint_extensions (
	fingerprint TEXT NOT NULL,
	extension_name TEXT NOT NULL,
	extension_value TEXT,
	UNIQUE(fingerprint, extension_name)
);
CREATE TABLE IF NOT EXISTS x509_permissions (
	identity TEXT PRIMARY KEY,
	authority TEXT NOT NULL DEFAULT '',
	common_name TEXT,
	max_validity INTEGER NOT NULL DEFAULT 3600
);
`

// DatabaseConfig configures the local sqlite backend.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// Database authorizes against a local sqlite database. Every decision field
// comes from the fingerprint's rows; nothing is taken from the request on
// trust except the validity window, which is bounds-checked.
type Database struct {
	db *sql.DB
}

func NewDatabase(cfg DatabaseConfig) (*Database, error) {
	if cfg.Path == "" {
		return nil, trace.BadParameter("missing database path")
	}
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, trace.Wrap(err)
	}
	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return trace.Wrap(d.db.Close())
}

type permissions struct {
	hostUnrestricted      bool
	principalUnrestricted bool
	canCreateHostCerts    bool
	canCreateUserCerts    bool
	maxCreationTime       uint64
	forceCommand          sql.NullString
	forceSourceIP         bool
}

func (d *Database) AuthorizeSSHCert(ctx context.Context, req *SSHAuthorizationRequest) (*SSHAuthorization, error) {
	var perms permissions
	err := d.db.QueryRowContext(ctx,
		`SELECT host_unrestricted, principal_unrestricted, can_create_host_certs,
			can_create_user_certs, max_creation_time, force_command, force_source_ip
		 FROM fingerprint_permissions WHERE fingerprint = ?`, req.Fingerprint).
		Scan(&perms.hostUnrestricted, &perms.principalUnrestricted,
			&perms.canCreateHostCerts, &perms.canCreateUserCerts,
			&perms.maxCreationTime, &perms.forceCommand, &perms.forceSourceIP)
	switch {
	case err == sql.ErrNoRows:
		return nil, trace.AccessDenied("key %s has no permissions", req.Fingerprint)
	case err != nil:
		return nil, trace.Wrap(err)
	}

	const userCert, hostCert = 1, 2
	switch req.CertType {
	case userCert:
		if !perms.canCreateUserCerts {
			return nil, trace.AccessDenied("key %s may not request user certificates", req.Fingerprint)
		}
	case hostCert:
		if !perms.canCreateHostCerts {
			return nil, trace.AccessDenied("key %s may not request host certificates", req.Fingerprint)
		}
	default:
		return nil, trace.BadParameter("unknown certificate type %d", req.CertType)
	}

	now := uint64(time.Now().Unix())
	if req.ValidBefore > now+perms.maxCreationTime {
		return nil, trace.AccessDenied("requested expiry exceeds the maximum validity for key %s", req.Fingerprint)
	}

	if !perms.principalUnrestricted {
		if err := d.checkAuthorized(ctx, req.Fingerprint, req.Principals,
			"SELECT principal FROM fingerprint_principal_authorizations WHERE fingerprint = ?"); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	if !perms.hostUnrestricted {
		if err := d.checkAuthorized(ctx, req.Fingerprint, req.Servers,
			"SELECT hostname FROM fingerprint_host_authorizations WHERE fingerprint = ?"); err != nil {
			return nil, trace.Wrap(err)
		}
	}

	extensions, err := d.extensions(ctx, req.Fingerprint)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	serial, err := randomSerial()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	auth := &SSHAuthorization{
		Serial:        serial,
		ValidBefore:   req.ValidBefore,
		ValidAfter:    req.ValidAfter,
		Principals:    req.Principals,
		Extensions:    extensions,
		ForceSourceIP: perms.forceSourceIP,
		Authority:     req.Authority,
	}
	if perms.forceCommand.Valid {
		cmd := perms.forceCommand.String
		auth.ForceCommand = &cmd
	}
	return auth, nil
}

// checkAuthorized verifies every requested value appears in the
// fingerprint's authorization rows.
func (d *Database) checkAuthorized(ctx context.Context, fingerprint string, requested []string, query string) error {
	if len(requested) == 0 {
		return nil
	}
	rows, err := d.db.QueryContext(ctx, query, fingerprint)
	if err != nil {
		return trace.Wrap(err)
	}
	defer rows.Close()

	authorized := make(map[string]bool)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return trace.Wrap(err)
		}
		authorized[value] = true
	}
	if err := rows.Err(); err != nil {
		return trace.Wrap(err)
	}

	for _, value := range requested {
		if !authorized[value] {
			return trace.AccessDenied("key %s is not authorized for %q", fingerprint, value)
		}
	}
	return nil
}

func (d *Database) extensions(ctx context.Context, fingerprint string) (map[string]string, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT extension_name, extension_value FROM fingerprint_extensions WHERE fingerprint = ?", fingerprint)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer rows.Close()

	extensions := make(map[string]string)
	for rows.Next() {
		var name string
		var value sql.NullString
		if err := rows.Scan(&name, &value); err != nil {
			return nil, trace.Wrap(err)
		}
		extensions[name] = value.String
	}
	if err := rows.Err(); err != nil {
		return nil, trace.Wrap(err)
	}

	if len(extensions) == 0 {
		return defaultExtensions, nil
	}
	return extensions, nil
}

func (d *Database) AuthorizeAttestedX509Cert(ctx context.Context, req *X509AuthorizationRequest) (*X509Authorization, error) {
	if len(req.MTLSIdentities) != 1 {
		return nil, trace.AccessDenied("attested X509 issuance requires exactly one identity")
	}
	identity := req.MTLSIdentities[0]

	var authority string
	var commonName sql.NullString
	var maxValidity uint64
	err := d.db.QueryRowContext(ctx,
		"SELECT authority, common_name, max_validity FROM x509_permissions WHERE identity = ?", identity).
		Scan(&authority, &commonName, &maxValidity)
	switch {
	case err == sql.ErrNoRows:
		return nil, trace.AccessDenied("identity %q may not request X509 certificates", identity)
	case err != nil:
		return nil, trace.Wrap(err)
	}

	if authority == "" {
		authority = req.Authority
	}
	cn := identity
	if commonName.Valid && commonName.String != "" {
		cn = commonName.String
	}

	serial, err := randomSerial()
	if err != nil {
		return nil, trace.Wrap(err)
	}

	now := uint64(time.Now().Unix())
	return &X509Authorization{
		Authority:   authority,
		CommonName:  cn,
		Serial:      serial,
		ValidAfter:  now,
		ValidBefore: now + maxValidity,
	}, nil
}

func (d *Database) RegisterKey(ctx context.Context, req *RegisterKeyRequest) error {
	var user string
	if len(req.MTLSIdentities) > 0 {
		user = req.MTLSIdentities[0]
	}

	args := []any{req.Fingerprint, req.Pubkey, user, nil, nil, nil, nil, nil, nil}
	if att := req.Attestation; att != nil {
		args = []any{req.Fingerprint, req.Pubkey, user, att.Firmware, att.Serial,
			att.TouchPolicy, att.PinPolicy, att.Certificate, att.Intermediate}
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO registered_keys (fingerprint, pubkey, user, firmware, hsm_serial,
			touch_policy, pin_policy, attestation_certificate, attestation_intermediate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return trace.Wrap(err)
}

func (d *Database) AllowedSigners(ctx context.Context, req *AllowedSignersRequest) ([]AllowedSigner, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT user, pubkey FROM registered_keys ORDER BY user, fingerprint")
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer rows.Close()

	var signers []AllowedSigner
	for rows.Next() {
		var signer AllowedSigner
		if err := rows.Scan(&signer.Identity, &signer.Pubkey); err != nil {
			return nil, trace.Wrap(err)
		}
		signers = append(signers, signer)
	}
	return signers, trace.Wrap(rows.Err())
}

func randomSerial() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, trace.Wrap(err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
