package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxRateLimitRetries     = 3
	DefaultMax5xxRetries           = 1
	DefaultRateLimitBaseDelay      = 1 * time.Second
	DefaultServerErrorRetryDelay   = 1 * time.Second
	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerResetTime = 30 * time.Second
)

// RetryConfig controls transport retries and the circuit breaker.
type RetryConfig struct {
	MaxRateLimitRetries     int
	Max5xxRetries           int
	RateLimitBaseDelay      time.Duration
	ServerErrorRetryDelay   time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerResetTime time.Duration
}

// DefaultRetryConfig reads retry tuning from the environment:
//
//   - STORE_MAX_RATE_LIMIT_RETRIES (default 3)
//   - STORE_MAX_5XX_RETRIES (default 1)
//   - STORE_RATE_LIMIT_DELAY (default "1s")
//   - STORE_SERVER_ERROR_DELAY (default "1s")
//   - STORE_CIRCUIT_BREAKER_THRESHOLD (default 5)
//   - STORE_CIRCUIT_BREAKER_RESET_TIME (default "30s")
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRateLimitRetries:     envInt("STORE_MAX_RATE_LIMIT_RETRIES", DefaultMaxRateLimitRetries),
		Max5xxRetries:           envInt("STORE_MAX_5XX_RETRIES", DefaultMax5xxRetries),
		RateLimitBaseDelay:      envDuration("STORE_RATE_LIMIT_DELAY", DefaultRateLimitBaseDelay),
		ServerErrorRetryDelay:   envDuration("STORE_SERVER_ERROR_DELAY", DefaultServerErrorRetryDelay),
		CircuitBreakerThreshold: envInt("STORE_CIRCUIT_BREAKER_THRESHOLD", DefaultCircuitBreakerThreshold),
		CircuitBreakerResetTime: envDuration("STORE_CIRCUIT_BREAKER_RESET_TIME", DefaultCircuitBreakerResetTime),
	}
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return def
}

// isIdempotent reports whether a request may be replayed safely.
func isIdempotent(method string, header http.Header) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return header.Get("Idempotency-Key") != ""
}

// circuitBreaker opens after threshold consecutive failures and lets one probe
// through once resetTime has passed.
type circuitBreaker struct {
	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	open        bool
	halfOpen    bool
	threshold   int
	resetTime   time.Duration
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
	cb.halfOpen = false
}

// recordFailure returns true if the circuit just opened or re-opened.
func (cb *circuitBreaker) recordFailure() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	if cb.halfOpen {
		cb.halfOpen = false
		return true
	}

	threshold := cb.threshold
	if threshold <= 0 {
		threshold = DefaultCircuitBreakerThreshold
	}
	if cb.failures >= threshold && !cb.open {
		cb.open = true
		return true
	}
	return false
}

func (cb *circuitBreaker) isOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open || cb.halfOpen {
		return false
	}
	resetTime := cb.resetTime
	if resetTime <= 0 {
		resetTime = DefaultCircuitBreakerResetTime
	}
	if time.Since(cb.lastFailure) >= resetTime {
		cb.halfOpen = true
		return false
	}
	return true
}

func (cb *circuitBreaker) reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
	cb.halfOpen = false
	cb.lastFailure = time.Time{}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfterDuration parses Retry-After as seconds or an HTTP date.
func retryAfterDuration(h http.Header) (time.Duration, bool) {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(secs, 0)) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		return max(time.Until(t), 0), true
	}
	return 0, false
}
