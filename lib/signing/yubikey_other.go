//go:build !libpcsclite

package signing

import (
	"github.com/gravitational/trace"
)

func newYubikeySigner(cfg AuthorityConfig) (Signer, error) {
	return nil, trace.NotImplemented("yubikey support requires building with the libpcsclite tag")
}
