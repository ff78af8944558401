package client

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/gravitational/trace"
	"github.com/klauspost/compress/zstd"

	"github.com/obelisk/rustica/api/rusticapb"
)

// Decompressed payloads are capped well above any plausible fleet size to
// keep a misbehaving server from exhausting memory.
const maxAllowedSignersSize = 64 << 20

// AllowedSigners fetches and decompresses the server's allowed-signers
// file. An empty payload is an error: the server always knows at least the
// registered keys, so emptiness means something upstream broke.
func (c *Client) AllowedSigners(ctx context.Context) (string, error) {
	resp, err := c.rpc.AllowedSigners(ctx, &rusticapb.AllowedSignersRequest{})
	if err != nil {
		return "", trace.Wrap(err)
	}

	dec, err := zstd.NewReader(bytes.NewReader(resp.CompressedAllowedSigners))
	if err != nil {
		return "", trace.Wrap(err)
	}
	defer dec.Close()

	data, err := io.ReadAll(io.LimitReader(dec, maxAllowedSignersSize))
	if err != nil {
		return "", trace.Wrap(err)
	}
	if len(data) == 0 {
		return "", trace.NotFound("server returned an empty allowed signers file")
	}
	return string(data), nil
}

// WriteAllowedSigners fetches the allowed-signers file and writes it to
// path.
func (c *Client) WriteAllowedSigners(ctx context.Context, path string) error {
	signers, err := c.AllowedSigners(ctx)
	if err != nil {
		return trace.Wrap(err)
	}
	return trace.ConvertSystemError(os.WriteFile(path, []byte(signers), 0o644))
}
