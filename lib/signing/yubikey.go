//go:build libpcsclite

package signing

import (
	"context"
	"crypto/rand"
	"strconv"
	"strings"

	"github.com/go-piv/piv-go/piv"
	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"
)

// yubikeySigner signs SSH certificates with keys resident in Yubikey PIV
// slots. Requires pcsclite, so it only builds with the libpcsclite tag.
type yubikeySigner struct {
	user ssh.Signer
	host ssh.Signer
}

func newYubikeySigner(cfg AuthorityConfig) (*yubikeySigner, error) {
	cards, err := piv.Cards()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	var yk *piv.YubiKey
	for _, card := range cards {
		if !strings.Contains(strings.ToLower(card), "yubikey") {
			continue
		}
		if yk, err = piv.Open(card); err == nil {
			break
		}
		log.Warnf("Could not open card %q: %v", card, err)
	}
	if yk == nil {
		return nil, trace.NotFound("no usable yubikey found")
	}

	s := &yubikeySigner{}
	if cfg.UserSlot != "" {
		if s.user, err = newYubikeyKey(yk, cfg.UserSlot, cfg.PIN); err != nil {
			return nil, trace.Wrap(err, "loading user slot")
		}
	}
	if cfg.HostSlot != "" {
		if s.host, err = newYubikeyKey(yk, cfg.HostSlot, cfg.PIN); err != nil {
			return nil, trace.Wrap(err, "loading host slot")
		}
	}
	if s.user == nil && s.host == nil {
		return nil, trace.BadParameter("yubikey authority configures no slots")
	}
	return s, nil
}

func newYubikeyKey(yk *piv.YubiKey, slotName, pin string) (ssh.Signer, error) {
	slot, err := parseSlot(slotName)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	attestation, err := yk.Attest(slot)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if pin == "" {
		pin = piv.DefaultPIN
	}
	priv, err := yk.PrivateKey(slot, attestation.PublicKey, piv.KeyAuth{PIN: pin})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	return signer, trace.Wrap(err)
}

func parseSlot(name string) (piv.Slot, error) {
	switch strings.ToLower(name) {
	case "9a":
		return piv.SlotAuthentication, nil
	case "9c":
		return piv.SlotSignature, nil
	case "9d":
		return piv.SlotKeyManagement, nil
	case "9e":
		return piv.SlotCardAuthentication, nil
	}
	key, err := strconv.ParseUint(name, 16, 32)
	if err != nil {
		return piv.Slot{}, trace.BadParameter("invalid slot %q", name)
	}
	slot, ok := piv.RetiredKeyManagementSlot(uint32(key))
	if !ok {
		return piv.Slot{}, trace.BadParameter("invalid slot %q", name)
	}
	return slot, nil
}

func (s *yubikeySigner) SignSSH(ctx context.Context, cert *ssh.Certificate) error {
	signer := s.signerFor(cert.CertType)
	if signer == nil {
		return trace.NotFound("no slot for certificate type %d", cert.CertType)
	}
	return trace.Wrap(cert.SignCert(rand.Reader, signer))
}

func (s *yubikeySigner) signerFor(certType uint32) ssh.Signer {
	switch certType {
	case ssh.UserCert:
		return s.user
	case ssh.HostCert:
		return s.host
	}
	return nil
}

func (s *yubikeySigner) SSHPublicKey(certType uint32) ssh.PublicKey {
	if signer := s.signerFor(certType); signer != nil {
		return signer.PublicKey()
	}
	return nil
}

func (s *yubikeySigner) AttestedX509CA() (*CertificateAuthority, error) {
	return nil, trace.NotImplemented("yubikey authorities cannot issue X509 certificates")
}

func (s *yubikeySigner) ClientCertificateAuthority() (*CertificateAuthority, error) {
	return nil, trace.NotImplemented("yubikey authorities cannot issue client certificates")
}
