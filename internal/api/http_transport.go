package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/36node/store-cli/internal/debug"
)

// HTTPTransport is the default Transport, built on net/http.
//
// It retries 429 and 5xx responses for idempotent requests and keeps a circuit
// breaker across calls, so one HTTPTransport shared by several clients shares
// that failure state. Use ResetCircuitBreaker between logical sessions.
type HTTPTransport struct {
	HTTP               *http.Client
	UserAgent          string
	IdempotencyKey     string
	IdempotencyKeyFunc func() string
	RetryConfig        RetryConfig

	circuitBreaker *circuitBreaker
	rateLimitMu    sync.Mutex
	lastRateLimit  *RateLimitInfo
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport returns a transport with TLS 1.2+ and env-tuned retries.
func NewHTTPTransport() *HTTPTransport {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}
	rt := base.Clone()
	if rt.TLSClientConfig == nil {
		rt.TLSClientConfig = &tls.Config{}
	} else {
		rt.TLSClientConfig = rt.TLSClientConfig.Clone()
	}
	rt.TLSClientConfig.MinVersion = tls.VersionTLS12

	cfg := DefaultRetryConfig()
	return &HTTPTransport{
		HTTP:        &http.Client{Timeout: DefaultTimeout, Transport: rt},
		RetryConfig: cfg,
		circuitBreaker: &circuitBreaker{
			threshold: cfg.CircuitBreakerThreshold,
			resetTime: cfg.CircuitBreakerResetTime,
		},
	}
}

// SetRetryConfig updates retries and aligns the circuit breaker.
func (t *HTTPTransport) SetRetryConfig(cfg RetryConfig) {
	t.RetryConfig = cfg
	if t.circuitBreaker != nil {
		t.circuitBreaker.threshold = cfg.CircuitBreakerThreshold
		t.circuitBreaker.resetTime = cfg.CircuitBreakerResetTime
	}
}

// ResetCircuitBreaker clears failure counts and closes the circuit.
func (t *HTTPTransport) ResetCircuitBreaker() {
	if t.circuitBreaker != nil {
		t.circuitBreaker.reset()
	}
}

// LastRateLimit returns a copy of the most recent rate limit headers seen.
func (t *HTTPTransport) LastRateLimit() *RateLimitInfo {
	t.rateLimitMu.Lock()
	defer t.rateLimitMu.Unlock()
	return t.lastRateLimit.clone()
}

func (t *HTTPTransport) recordRateLimit(h http.Header) {
	info := ParseRateLimitInfo(h, time.Now())
	t.rateLimitMu.Lock()
	defer t.rateLimitMu.Unlock()
	t.lastRateLimit = info
}

// Do sends the request, retrying where safe.
func (t *HTTPTransport) Do(ctx context.Context, tr *TransportRequest) (*Response, error) {
	if t.circuitBreaker != nil && t.circuitBreaker.isOpen() {
		return nil, &CircuitBreakerError{}
	}

	target := ResolveURL(tr)
	body, contentType, err := encodeBody(tr.Body)
	if err != nil {
		return nil, err
	}

	idempotencyKey := t.IdempotencyKey
	if idempotencyKey == "" && t.IdempotencyKeyFunc != nil {
		idempotencyKey = t.IdempotencyKeyFunc()
	}
	header := tr.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if idempotencyKey != "" && tr.Method != http.MethodGet && header.Get("Idempotency-Key") == "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}
	replayable := isIdempotent(tr.Method, header)

	var retries429, retries5xx int
	attempt := 0
	for {
		attempt++
		start := time.Now()

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, tr.Method, target, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				if v != "" {
					req.Header.Add(k, v)
				}
			}
		}
		if t.UserAgent != "" {
			req.Header.Set("User-Agent", t.UserAgent)
		}
		if contentType != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", contentType)
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}

		resp, err := t.HTTP.Do(req)
		if err != nil {
			if debug.IsEnabled(ctx) {
				slog.Debug("request failed", "op", tr.Operation, "method", tr.Method, "url", target, "attempt", attempt, "error", err)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &NetworkError{Method: tr.Method, URL: target, Err: err}
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, &NetworkError{Method: tr.Method, URL: target, Err: fmt.Errorf("failed to read response: %w", err)}
		}
		t.recordRateLimit(resp.Header)
		if debug.IsEnabled(ctx) {
			slog.Debug("request complete", "op", tr.Operation, "method", tr.Method, "url", target, "status", resp.StatusCode, "attempt", attempt, "duration", time.Since(start), "headers", debug.RedactHeaders(req.Header))
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, hasRetryAfter := retryAfterDuration(resp.Header)
			if !hasRetryAfter {
				retryAfter = t.RetryConfig.RateLimitBaseDelay * time.Duration(1<<retries429)
			}
			if !replayable || retries429 >= t.RetryConfig.MaxRateLimitRetries {
				out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody}
				return out, &RateLimitError{
					RetryAfter: retryAfter,
					Response:   newHTTPError(resp.StatusCode, resp.Header, respBody),
				}
			}
			slog.Info("rate limited, retrying", "delay", retryAfter, "attempt", retries429+1)
			if err := sleepWithContext(ctx, retryAfter); err != nil {
				return nil, err
			}
			retries429++
			continue
		}

		if resp.StatusCode >= 500 {
			if t.circuitBreaker != nil {
				t.circuitBreaker.recordFailure()
			}
			if replayable && retries5xx < t.RetryConfig.Max5xxRetries {
				slog.Info("server error, retrying", "status", resp.StatusCode)
				if err := sleepWithContext(ctx, t.RetryConfig.ServerErrorRetryDelay); err != nil {
					return nil, err
				}
				retries5xx++
				continue
			}
		}

		out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody}
		if resp.StatusCode >= 400 {
			return out, newHTTPError(resp.StatusCode, resp.Header, respBody)
		}
		if t.circuitBreaker != nil {
			t.circuitBreaker.recordSuccess()
		}
		return out, nil
	}
}

// encodeBody turns a request body into bytes. Raw bytes pass through.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "application/json", nil
	case json.RawMessage:
		return b, "application/json", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, "application/json", nil
}
