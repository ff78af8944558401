package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gravitational/trace"
)

// WebhookConfig configures the JSON webhook sink.
type WebhookConfig struct {
	URL string `toml:"url"`
}

// webhookSink POSTs every event as JSON to a remote collector.
type webhookSink struct {
	url    string
	client *http.Client
}

func newWebhookSink(cfg WebhookConfig) (*webhookSink, error) {
	if _, err := url.Parse(cfg.URL); err != nil || cfg.URL == "" {
		return nil, trace.BadParameter("invalid webhook url %q", cfg.URL)
	}
	return &webhookSink{
		url:    cfg.URL,
		client: &http.Client{Timeout: 5 * time.Second},
	}, nil
}

func (s *webhookSink) Name() string { return "webhook" }

func (s *webhookSink) Consume(event *WrappedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return trace.Wrap(err)
	}
	resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return trace.Wrap(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return trace.BadParameter("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
