package logging

import (
	"strings"
)

// StdoutConfig enables the stdout sink. It has no settings yet; its
// presence in the configuration turns it on.
type StdoutConfig struct{}

// stdoutSink renders events as human readable log lines.
type stdoutSink struct{}

func newStdoutSink(StdoutConfig) *stdoutSink {
	return &stdoutSink{}
}

func (s *stdoutSink) Name() string { return "stdout" }

func (s *stdoutSink) Consume(event *WrappedEvent) error {
	switch {
	case event.CertificateIssued != nil:
		e := event.CertificateIssued
		log.Infof("Issued a %s certificate from authority %s for key %s to [%s] with principals [%s], valid %d to %d",
			e.CertificateType, e.Authority, e.Fingerprint,
			strings.Join(e.MTLSIdentities, ","), strings.Join(e.Principals, ","),
			e.ValidAfter, e.ValidBefore)
	case event.X509CertificateIssued != nil:
		e := event.X509CertificateIssued
		log.Infof("Issued an attested X509 certificate from authority %s for %s to [%s]",
			e.Authority, e.CommonName, strings.Join(e.MTLSIdentities, ","))
	case event.KeyRegistered != nil:
		e := event.KeyRegistered
		log.Infof("Registered key %s for [%s]", e.Fingerprint, strings.Join(e.MTLSIdentities, ","))
	case event.KeyRegistrationFailure != nil:
		e := event.KeyRegistrationFailure
		log.Warnf("Failed to register key %s for [%s]: %s",
			e.Fingerprint, strings.Join(e.MTLSIdentities, ","), e.Message)
	case event.InternalMessage != nil:
		log.Info(event.InternalMessage.Message)
	case event.Heartbeat != nil:
		log.Debugf("Heartbeat from %s", event.Identifier)
	}
	return nil
}
