// Package verification checks hardware attestation chains for keys being
// registered or certified. It supports Yubikey PIV attestation and
// U2F/FIDO2 authenticator attestation.
package verification

import (
	"golang.org/x/crypto/ssh"
)

// KeyAttestation is the hardware provenance recorded alongside a registered
// key. PIV attestations populate the policy fields; U2F attestations
// populate AuthData.
type KeyAttestation struct {
	Certificate  []byte
	Intermediate []byte
	Firmware     string
	Serial       int64
	PinPolicy    int
	TouchPolicy  int
	AuthData     []byte
}

// AttestedKey is a key whose attestation chain verified.
type AttestedKey struct {
	Fingerprint string
	PublicKey   ssh.PublicKey
	Attestation *KeyAttestation
}
