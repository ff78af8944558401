package verification

import (
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/gravitational/trace"
	"golang.org/x/crypto/ssh"
)

// Yubico PIV Root CA Serial 263751
// https://developers.yubico.com/PIV/Introduction/piv-attestation-ca.pem
const yubicoPIVRootCA = `-----BEGIN CERTIFICATE-----
MIIDFzCCAf+gAwIBAgIDBAZHMA0GCSqGSIb3DQEBCwUAMCsxKTAnBgNVBAMMIFl1
YmljbyBQSVYgUm9vdCBDQSBTZXJpYWwgMjYzNzUxMCAXDTE2MDMxNDAwMDAwMFoY
DzIwNTIwNDE3MDAwMDAwWjArMSkwJwYDVQQDDCBZdWJpY28gUElWIFJvb3QgQ0Eg
U2VyaWFsIDI2Mzc1MTCCASIwDQYJKoZIhvcNAQEBBQADggEPADCCAQoCggEBAMN2
cMTNR6YCdcTFRxuPy31PabRn5m6pJ+nSE0HRWpoaM8fc8wHC+Tmb98jmNvhWNE2E
ilU85uYKfEFP9d6Q2GmytqBnxZsAa3KqZiCCx2LwQ4iYEOb1llgotVr/whEpdVOq
joU0P5e1j1y7OfwOvky/+AXIN/9Xp0VFlYRk2tQ9GcdYKDmqU+db9iKwpAzid4oH
BVLIhmD3pvkWaRA2H3DA9t7H/HNq5v3OiO1jyLZeKqZoMbPObrxqDg+9fOdShzgf
wCqgT3XVmTeiwvBSTctyi9mHQfYd2DwkaqxRnLbNVyK9zl+DzjSGp9IhVPiVtGet
X02dxhQnGS7K6BO0Qe8CAwEAAaNCMEAwHQYDVR0OBBYEFMpfyvLEojGc6SJf8ez0
1d8Cv4O/MA8GA1UdEwQIMAYBAf8CAQEwDgYDVR0PAQH/BAQDAgEGMA0GCSqGSIb3
DQEBCwUAA4IBAQBc7Ih8Bc1fkC+FyN1fhjWioBCMr3vjneh7MLbA6kSoyWF70N3s
XhbXvT4eRh0hvxqvMZNjPU/VlRn6gLVtoEikDLrYFXN6Hh6Wmyy1GTnspnOvMvz2
lLKuym9KYdYLDgnj3BeAvzIhVzzYSeU77/Cupofj093OuAswW0jYvXsGTyix6B3d
bW5yWvyS9zNXaqGaUmP3U9/b6DlHdDogMLu3VLpBB9bm5bjaKWWJYgWltCVgUbFq
Fqyi4+JE014cSgR57Jcu3dZiehB6UtAPgad9L5cNvua/IWRmm+ANy3O2LH++Pyl8
SREzU8onbBsjMg9QDiSf5oJLKvd/Ren+zGY7
-----END CERTIFICATE-----`

// https://developers.yubico.com/PIV/Introduction/PIV_attestation.html
var (
	oidYubicoFirmwareVersion = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 41482, 3, 3}
	oidYubicoSerialNumber    = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 41482, 3, 7}
	oidYubicoKeyPolicy       = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 41482, 3, 8}
)

// VerifyPIVCertificateChain verifies a Yubikey slot attestation: the leaf
// must chain through the device's attestation intermediate to the Yubico PIV
// root. On success the attested public key and device metadata are
// returned.
func VerifyPIVCertificateChain(leafDER, intermediateDER []byte) (*AttestedKey, error) {
	leaf, err := x509.ParseCertificate(leafDER)
	if err != nil {
		return nil, trace.Wrap(err, "parsing attestation leaf")
	}
	intermediate, err := x509.ParseCertificate(intermediateDER)
	if err != nil {
		return nil, trace.Wrap(err, "parsing attestation intermediate")
	}

	block, _ := pem.Decode([]byte(yubicoPIVRootCA))
	root, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	roots := x509.NewCertPool()
	roots.AddCert(root)
	intermediates := x509.NewCertPool()
	intermediates.AddCert(intermediate)

	if _, err := leaf.Verify(x509.VerifyOptions{
		Intermediates: intermediates,
		Roots:         roots,
		CurrentTime:   time.Now().Truncate(time.Second),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); err != nil {
		return nil, trace.Wrap(err, "attestation chain did not verify")
	}

	attestation := &KeyAttestation{
		Certificate:  leafDER,
		Intermediate: intermediateDER,
	}
	for _, ext := range leaf.Extensions {
		switch {
		case ext.Id.Equal(oidYubicoFirmwareVersion):
			if len(ext.Value) == 3 {
				attestation.Firmware = fmt.Sprintf("%d.%d.%d", ext.Value[0], ext.Value[1], ext.Value[2])
			}
		case ext.Id.Equal(oidYubicoSerialNumber):
			var serial int64
			if _, err := asn1.Unmarshal(ext.Value, &serial); err == nil {
				attestation.Serial = serial
			}
		case ext.Id.Equal(oidYubicoKeyPolicy):
			if len(ext.Value) == 2 {
				attestation.PinPolicy = int(ext.Value[0])
				attestation.TouchPolicy = int(ext.Value[1])
			}
		}
	}

	pubkey, err := ssh.NewPublicKey(leaf.PublicKey)
	if err != nil {
		return nil, trace.Wrap(err, "attested key is not representable as an SSH key")
	}

	return &AttestedKey{
		Fingerprint: ssh.FingerprintSHA256(pubkey),
		PublicKey:   pubkey,
		Attestation: attestation,
	}, nil
}
