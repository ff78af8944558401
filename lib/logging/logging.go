// Package logging carries security events from the RPC handlers to the
// configured sinks. Handlers write to a buffered channel and never block on
// sink I/O; a dedicated runner drains the channel and fans out.
package logging

import (
	"context"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	trace.Component: "rustica:logging",
})

const defaultHeartbeatInterval = 300 * time.Second

// KeyInfo identifies a key and who presented it.
type KeyInfo struct {
	Fingerprint    string   `json:"fingerprint"`
	MTLSIdentities []string `json:"mtls_identities"`
}

// CertificateIssued records one SSH certificate issuance.
type CertificateIssued struct {
	Fingerprint     string            `json:"fingerprint"`
	SignedBy        string            `json:"signed_by"`
	Authority       string            `json:"authority"`
	Serial          uint64            `json:"serial"`
	CertificateType string            `json:"certificate_type"`
	MTLSIdentities  []string          `json:"mtls_identities"`
	Principals      []string          `json:"principals"`
	Extensions      map[string]string `json:"extensions"`
	CriticalOptions map[string]string `json:"critical_options"`
	ValidAfter      uint64            `json:"valid_after"`
	ValidBefore     uint64            `json:"valid_before"`
	// NewAccessCertificateIssued marks that the response also carried a
	// replacement mTLS certificate.
	NewAccessCertificateIssued bool `json:"new_access_certificate_issued"`
}

// X509CertificateIssued records one attested X509 issuance.
type X509CertificateIssued struct {
	Authority      string   `json:"authority"`
	CommonName     string   `json:"common_name"`
	Serial         uint64   `json:"serial"`
	MTLSIdentities []string `json:"mtls_identities"`
	ValidAfter     uint64   `json:"valid_after"`
	ValidBefore    uint64   `json:"valid_before"`
}

// KeyRegistrationFailure records a rejected key registration.
type KeyRegistrationFailure struct {
	KeyInfo
	Message string `json:"message"`
}

// InternalMessage is a free-form operational note.
type InternalMessage struct {
	Message string `json:"message"`
}

// Heartbeat is emitted periodically so sink consumers can detect a dead
// pipeline.
type Heartbeat struct{}

// Event is one log entry. Exactly one field is set.
type Event struct {
	CertificateIssued      *CertificateIssued      `json:"certificate_issued,omitempty"`
	X509CertificateIssued  *X509CertificateIssued  `json:"x509_certificate_issued,omitempty"`
	KeyRegistered          *KeyInfo                `json:"key_registered,omitempty"`
	KeyRegistrationFailure *KeyRegistrationFailure `json:"key_registration_failure,omitempty"`
	InternalMessage        *InternalMessage        `json:"internal_message,omitempty"`
	Heartbeat              *Heartbeat              `json:"heartbeat,omitempty"`
}

// WrappedEvent is what sinks consume: the event plus the identifier of the
// emitting server.
type WrappedEvent struct {
	Event
	Identifier string `json:"identifier"`
}

// Sink delivers events somewhere. Consume errors are reported but never
// retried.
type Sink interface {
	Name() string
	Consume(event *WrappedEvent) error
}

// Sender is the handler-facing half of the pipeline. A Sender built over a
// nil channel discards everything, which keeps tests quiet.
type Sender struct {
	ch chan<- Event
}

func NewSender(ch chan<- Event) *Sender {
	return &Sender{ch: ch}
}

// Send enqueues the event. If the pipeline is full the event is dropped; a
// slow sink must never stall issuance.
func (s *Sender) Send(event Event) {
	if s.ch == nil {
		return
	}
	select {
	case s.ch <- event:
	default:
		log.Warn("Log event dropped, the logging pipeline is backed up")
	}
}

// Config is the [logging] section of the server configuration.
type Config struct {
	Identifier        string         `toml:"identifier"`
	HeartbeatInterval uint64         `toml:"heartbeat_interval"`
	Stdout            *StdoutConfig  `toml:"stdout"`
	Webhook           *WebhookConfig `toml:"webhook"`

	Clock clockwork.Clock `toml:"-"`
}

// Logger owns the event channel and the sinks draining it.
type Logger struct {
	ch         chan Event
	sinks      []Sink
	identifier string
	heartbeat  time.Duration
	clock      clockwork.Clock
}

func New(cfg Config) (*Logger, error) {
	var sinks []Sink
	if cfg.Stdout != nil {
		sinks = append(sinks, newStdoutSink(*cfg.Stdout))
	}
	if cfg.Webhook != nil {
		sink, err := newWebhookSink(*cfg.Webhook)
		if err != nil {
			return nil, trace.Wrap(err)
		}
		sinks = append(sinks, sink)
	}

	heartbeat := defaultHeartbeatInterval
	if cfg.HeartbeatInterval != 0 {
		heartbeat = time.Duration(cfg.HeartbeatInterval) * time.Second
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Logger{
		ch:         make(chan Event, 256),
		sinks:      sinks,
		identifier: cfg.Identifier,
		heartbeat:  heartbeat,
		clock:      clock,
	}, nil
}

// Sender returns a handle handlers can emit through.
func (l *Logger) Sender() *Sender {
	return NewSender(l.ch)
}

// Run drains the pipeline until the context is cancelled, interleaving
// heartbeats.
func (l *Logger) Run(ctx context.Context) {
	ticker := l.clock.NewTicker(l.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case event := <-l.ch:
			l.dispatch(&event)
		case <-ticker.Chan():
			l.dispatch(&Event{Heartbeat: &Heartbeat{}})
		case <-ctx.Done():
			return
		}
	}
}

func (l *Logger) dispatch(event *Event) {
	wrapped := &WrappedEvent{Event: *event, Identifier: l.identifier}
	for _, sink := range l.sinks {
		if err := sink.Consume(wrapped); err != nil {
			log.Errorf("Sink %s could not consume event: %v", sink.Name(), err)
		}
	}
}
