package server

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gravitational/trace"
	"github.com/klauspost/compress/zstd"

	"github.com/obelisk/rustica/api/rusticapb"
	"github.com/obelisk/rustica/lib/authorization"
)

// signersCache holds one compressed rendering of the allowed-signers file.
// The zero value is an expired empty cache.
type signersCache struct {
	compressed []byte
	expiresAt  time.Time
}

func (c *signersCache) fresh(now time.Time) bool {
	// A request landing exactly at the expiry instant is still served from
	// cache.
	return c.compressed != nil && !now.After(c.expiresAt)
}

// AllowedSigners returns the zstd-compressed allowed-signers file. The
// payload is cached for every caller; a per-identity LRU limiter keeps a
// single client from forcing rebuild traffic to the backend.
func (s *Server) AllowedSigners(ctx context.Context, req *rusticapb.AllowedSignersRequest) (*rusticapb.AllowedSignersResponse, error) {
	info, err := peerFromContext(ctx)
	if err != nil {
		return nil, trace.AccessDenied("")
	}
	identity := strings.Join(info.identities, ",")

	if s.isRateLimited(identity) {
		log.Infof("[%s] was rate limited while requesting an allowed signers file", identity)
		allowedSignersRateLimited.Inc()
		return nil, trace.LimitExceeded("rate limited")
	}

	now := s.clock.Now()

	s.cacheMu.RLock()
	if s.cache.fresh(now) {
		resp := &rusticapb.AllowedSignersResponse{CompressedAllowedSigners: s.cache.compressed}
		s.cacheMu.RUnlock()
		return resp, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// Another handler may have refreshed the cache while we waited on the
	// write lock.
	if s.cache.fresh(now) {
		return &rusticapb.AllowedSignersResponse{CompressedAllowedSigners: s.cache.compressed}, nil
	}

	signers, err := s.authorizer.AllowedSigners(ctx, &authorization.AllowedSignersRequest{
		QueryingMTLSIdentities: info.identities,
	})
	if err != nil {
		log.Errorf("Getting allowed signers failed: %v", err)
		return nil, trace.AccessDenied("")
	}

	compressed, err := compressAllowedSigners(renderAllowedSigners(signers))
	if err != nil {
		log.Errorf("Compressing allowed signers failed: %v", err)
		return nil, trace.AccessDenied("")
	}

	s.cache = signersCache{
		compressed: compressed,
		expiresAt:  now.Add(s.allowedSigners.CacheValidityLength),
	}
	log.Infof("Allowed signers cache refreshed with %d entries", len(signers))

	return &rusticapb.AllowedSignersResponse{CompressedAllowedSigners: compressed}, nil
}

// isRateLimited reports whether the identity asked too recently. The
// deadline is refreshed on every call, including denied ones, so hammering
// the endpoint never earns a fresh rebuild.
func (s *Server) isRateLimited(identity string) bool {
	now := s.clock.Now()

	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	deadline, ok := s.limiter.Peek(identity)
	s.limiter.Add(identity, now.Add(s.allowedSigners.RateLimitCooldown))
	return ok && now.Before(deadline)
}

// renderAllowedSigners produces the openssh allowed-signers format, one
// "identity key" line per entry, with no trailing newline.
func renderAllowedSigners(signers []authorization.AllowedSigner) string {
	lines := make([]string, 0, len(signers))
	for _, signer := range signers {
		lines = append(lines, signer.Identity+" "+signer.Pubkey)
	}
	return strings.Join(lines, "\n")
}

func compressAllowedSigners(data string) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if _, err := enc.Write([]byte(data)); err != nil {
		enc.Close()
		return nil, trace.Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return nil, trace.Wrap(err)
	}
	return buf.Bytes(), nil
}
