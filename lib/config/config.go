// Package config loads the server's TOML configuration. Key material is
// carried inline in the file rather than by path, so a single file fully
// describes a deployment.
package config

import (
	"net"
	"os"

	"github.com/gravitational/trace"
	"github.com/pelletier/go-toml"

	"github.com/obelisk/rustica/lib/authorization"
	"github.com/obelisk/rustica/lib/logging"
	"github.com/obelisk/rustica/lib/signing"
)

// DefaultPath is where the server looks when --config is not given.
const DefaultPath = "/etc/rustica/rustica.toml"

// ClientAuthority selects the signing authority whose client CA anchors the
// mTLS surface and sets the rolling reissuance windows, in seconds.
type ClientAuthority struct {
	Authority               string `toml:"authority"`
	ValidityLength          uint64 `toml:"validity_length"`
	ExpirationRenewalPeriod uint64 `toml:"expiration_renewal_period"`
}

// AllowedSigners tunes the allowed-signers cache. Durations are in seconds.
type AllowedSigners struct {
	CacheValidityLength uint64 `toml:"cache_validity_length"`
	LRURateLimiterSize  int    `toml:"lru_rate_limiter_size"`
	RateLimitCooldown   uint64 `toml:"rate_limit_cooldown"`
}

// Config is the full server configuration.
type Config struct {
	ServerCert              string               `toml:"server_cert"`
	ServerKey               string               `toml:"server_key"`
	ListenAddress           string               `toml:"listen_address"`
	MetricsAddress          string               `toml:"metrics_address"`
	RequireRusticaProof     bool                 `toml:"require_rustica_proof"`
	RequireAttestationChain bool                 `toml:"require_attestation_chain"`
	ClientAuthority         ClientAuthority      `toml:"client_authority"`
	AllowedSigners          AllowedSigners       `toml:"allowed_signers"`
	Signing                 signing.Config       `toml:"signing"`
	Authorization           authorization.Config `toml:"authorization"`
	Logging                 logging.Config       `toml:"logging"`
}

// Load reads and parses the configuration file. Parse failures are
// trace.BadParameter so the CLI can report them as configuration errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, trace.BadParameter("could not parse configuration: %v", err)
	}
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &cfg, nil
}

func (c *Config) CheckAndSetDefaults() error {
	if c.ServerCert == "" || c.ServerKey == "" {
		return trace.BadParameter("server_cert and server_key are required")
	}
	if c.ListenAddress == "" {
		return trace.BadParameter("listen_address is required")
	}
	if _, err := net.ResolveTCPAddr("tcp", c.ListenAddress); err != nil {
		return trace.BadParameter("invalid listen_address %q: %v", c.ListenAddress, err)
	}
	if c.AllowedSigners.LRURateLimiterSize <= 0 {
		return trace.BadParameter("allowed_signers.lru_rate_limiter_size must be non-zero")
	}
	if c.ClientAuthority.Authority == "" {
		return trace.BadParameter("client_authority.authority is required")
	}
	return nil
}
