package notify

import (
	"math"
	"math/rand"
	"net/http"
	"time"
)

// backoff returns the wait before the given redelivery attempt
func backoff(attempt int, config *RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	// ±10% jitter
	jitter := delay * 0.1
	delay = delay + (rand.Float64()*2-1)*jitter

	return time.Duration(delay)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
