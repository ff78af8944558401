package logging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects everything it consumes.
type recordingSink struct {
	mu     sync.Mutex
	events []WrappedEvent
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Consume(event *WrappedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *recordingSink) snapshot() []WrappedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WrappedEvent(nil), s.events...)
}

func (s *recordingSink) waitFor(t *testing.T, count int) []WrappedEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if events := s.snapshot(); len(events) >= count {
			return events
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, have %d", count, len(s.snapshot()))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNilSenderDiscards(t *testing.T) {
	// Must not panic or block.
	NewSender(nil).Send(Event{InternalMessage: &InternalMessage{Message: "dropped"}})
}

func TestSenderNeverBlocks(t *testing.T) {
	ch := make(chan Event, 1)
	sender := NewSender(ch)
	for i := 0; i < 10; i++ {
		sender.Send(Event{InternalMessage: &InternalMessage{Message: "overflow"}})
	}
	// Only the buffered event survives; the rest were dropped.
	assert.Len(t, ch, 1)
}

func TestLoggerDispatch(t *testing.T) {
	logger, err := New(Config{
		Identifier: "rustica-test",
		Clock:      clockwork.NewFakeClock(),
	})
	require.NoError(t, err)
	sink := &recordingSink{}
	logger.sinks = append(logger.sinks, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Run(ctx)
	}()

	logger.Sender().Send(Event{KeyRegistered: &KeyInfo{
		Fingerprint:    "SHA256:aaa",
		MTLSIdentities: []string{"alice@example.com"},
	}})
	logger.Sender().Send(Event{InternalMessage: &InternalMessage{Message: "starting"}})

	events := sink.waitFor(t, 2)
	assert.Equal(t, "rustica-test", events[0].Identifier)
	require.NotNil(t, events[0].KeyRegistered)
	assert.Equal(t, "SHA256:aaa", events[0].KeyRegistered.Fingerprint)
	require.NotNil(t, events[1].InternalMessage)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("logger did not stop on context cancellation")
	}
}

func TestLoggerHeartbeat(t *testing.T) {
	clock := clockwork.NewFakeClock()
	logger, err := New(Config{
		Identifier:        "rustica-test",
		HeartbeatInterval: 60,
		Clock:             clock,
	})
	require.NoError(t, err)
	sink := &recordingSink{}
	logger.sinks = append(logger.sinks, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go logger.Run(ctx)

	clock.BlockUntil(1)
	clock.Advance(61 * time.Second)

	events := sink.waitFor(t, 1)
	require.NotNil(t, events[0].Heartbeat)
}
