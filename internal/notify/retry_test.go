package notify

import (
	"net/http"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	config := &RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
	}

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{attempt: 0, base: 0},
		{attempt: 1, base: 100 * time.Millisecond},
		{attempt: 2, base: 200 * time.Millisecond},
		{attempt: 3, base: 400 * time.Millisecond},
		{attempt: 5, base: 1 * time.Second},
		{attempt: 10, base: 1 * time.Second},
	}

	for _, tt := range tests {
		got := backoff(tt.attempt, config)
		low := time.Duration(float64(tt.base) * 0.9)
		high := time.Duration(float64(tt.base) * 1.1)
		if got < low || got > high {
			t.Errorf("backoff(%d) = %v, want within [%v, %v]", tt.attempt, got, low, high)
		}
	}
}

func TestRetryableStatus(t *testing.T) {
	retryable := []int{
		http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
	for _, code := range retryable {
		if !retryableStatus(code) {
			t.Errorf("Expected %d to be retryable", code)
		}
	}

	for _, code := range []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound} {
		if retryableStatus(code) {
			t.Errorf("Expected %d to not be retryable", code)
		}
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	c := DefaultRetryConfig()
	if c.MaxRetries != 3 || c.InitialDelay != time.Second || c.MaxDelay != 30*time.Second || c.Multiplier != 2.0 {
		t.Errorf("Unexpected defaults: %+v", c)
	}
}
