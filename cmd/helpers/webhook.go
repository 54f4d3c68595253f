package helpers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zinc-sig/imagedrop/cmd/config"
	"github.com/zinc-sig/imagedrop/internal/notify"
)

// ParseWebhookConfig converts webhook flags to client configuration.
// It returns nil configs when no URL is set.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*notify.WebhookConfig, *notify.RetryConfig, error) {
	if cfg.URL == "" {
		return nil, nil, nil
	}

	timeout, err := parseDurationDefault(cfg.Timeout, 30*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}

	retryDelay, err := parseDurationDefault(cfg.RetryDelay, time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	if cfg.Retries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must not be negative, got %d", cfg.Retries)
	}

	method := strings.ToUpper(cfg.Method)
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, nil, fmt.Errorf("unsupported webhook method %q", cfg.Method)
	}

	authType := cfg.AuthType
	switch authType {
	case "":
		authType = "none"
	case "none", "bearer", "api-key":
	default:
		return nil, nil, fmt.Errorf("unsupported webhook auth type %q: must be none, bearer or api-key", cfg.AuthType)
	}

	webhookConfig := &notify.WebhookConfig{
		URL:       cfg.URL,
		Method:    method,
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: cfg.AuthToken,
	}

	retryConfig := &notify.RetryConfig{
		MaxRetries:   cfg.Retries,
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	return webhookConfig, retryConfig, nil
}

// BuildWebhookSink returns a sink for the configured webhook, or nil when
// none is configured.
func BuildWebhookSink(cfg *config.WebhookConfig, log zerolog.Logger) (*notify.WebhookSink, error) {
	webhookConfig, retryConfig, err := ParseWebhookConfig(cfg)
	if err != nil || webhookConfig == nil {
		return nil, err
	}
	client := notify.NewWebhookClient(webhookConfig, retryConfig, log)
	return notify.NewWebhookSink(client, "imagedrop", log), nil
}

func parseDurationDefault(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

// ParseOptionalDuration parses s, treating an empty string as zero
func ParseOptionalDuration(name, s string) (time.Duration, error) {
	d, err := parseDurationDefault(s, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, d)
	}
	return d, nil
}
