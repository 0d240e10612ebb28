package resilience

import (
	"time"
)

// FromRetryConfig converts config values to a RetryConfig. Zero values keep
// the defaults. With transientOnly set, only IsTransient errors are retried.
func FromRetryConfig(maxAttempts, backoffMs int, transientOnly bool) RetryConfig {
	cfg := DefaultRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if backoffMs > 0 {
		cfg.Backoff = time.Duration(backoffMs) * time.Millisecond
	}
	if transientOnly {
		cfg.ShouldRetry = IsTransient
	}
	return cfg
}
