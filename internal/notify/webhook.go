package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event is the webhook payload for one notification
type Event struct {
	Notification
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// WebhookClient posts JSON payloads to a webhook endpoint with retries
type WebhookClient struct {
	httpClient  *http.Client
	config      *WebhookConfig
	retryConfig *RetryConfig
	log         zerolog.Logger
}

// NewWebhookClient creates a webhook client, filling in defaults
func NewWebhookClient(config *WebhookConfig, retryConfig *RetryConfig, log zerolog.Logger) *WebhookClient {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}

	return &WebhookClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // per request
		},
		config:      config,
		retryConfig: retryConfig,
		log:         log.With().Str("component", "webhook").Logger(),
	}
}

// Send delivers payload, retrying retryable failures with backoff
func (c *WebhookClient) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(attempt, c.retryConfig)
			c.log.Debug().Int("attempt", attempt).Int("max_retries", c.retryConfig.MaxRetries).
				Dur("delay", delay).Msg("retrying webhook")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("webhook timeout after %d attempts: %w", attempt, ctx.Err())
			}
		}

		statusCode, err := c.do(ctx, body)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			c.log.Debug().Int("status", statusCode).Msg("webhook delivered")
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt+1, err)
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", attempt+1, statusCode)
		}

		if statusCode > 0 && !retryableStatus(statusCode) {
			c.log.Debug().Int("status", statusCode).Msg("non-retryable webhook status, giving up")
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retryConfig.MaxRetries+1, lastErr)
}

func (c *WebhookClient) do(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case "api-key":
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// WebhookSink forwards notifications to a webhook in the background,
// one at a time and in the order they were raised. Call Flush before
// exiting to wait for pending deliveries; notifications raised after
// Flush are dropped.
type WebhookSink struct {
	client *WebhookClient
	source string
	now    func() time.Time
	log    zerolog.Logger

	mu     sync.Mutex
	closed bool
	events chan Event
	done   chan struct{}
}

// NewWebhookSink creates a sink delivering through client. source is
// copied into every event so receivers can tell senders apart.
func NewWebhookSink(client *WebhookClient, source string, log zerolog.Logger) *WebhookSink {
	s := &WebhookSink{
		client: client,
		source: source,
		now:    time.Now,
		log:    log,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *WebhookSink) run() {
	defer close(s.done)
	for event := range s.events {
		if err := s.client.Send(context.Background(), event); err != nil {
			s.log.Warn().Err(err).Str("type", string(event.Type)).Msg("notification webhook failed")
		}
	}
}

// Notify queues n for delivery. It only blocks when the queue is full.
func (s *WebhookSink) Notify(n Notification) {
	event := Event{Notification: n, Timestamp: s.now().UTC(), Source: s.source}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Debug().Str("type", string(n.Type)).Msg("webhook sink flushed, dropping notification")
		return
	}
	s.events <- event
}

// Flush stops accepting notifications and blocks until every queued
// delivery has finished. It is safe to call more than once.
func (s *WebhookSink) Flush() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	s.mu.Unlock()
	<-s.done
}
