package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// MissingParameterError is returned before dispatch when a required field is
// absent or empty.
type MissingParameterError struct {
	Operation string
	Field     Field
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s is required for %s", e.Field, e.Operation)
}

// UnknownOperationError is returned by Client.Call for names outside the catalogue.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}

// HTTPError represents a non-2xx response.
type HTTPError struct {
	StatusCode int
	// Code and Message come from the API error envelope when present.
	Code      string
	Message   string
	Body      []byte
	Header    http.Header
	RequestID string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("API error (status %d, %s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

// NetworkError wraps a failure to reach the server.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RateLimitError represents a rate limit exceeded error.
type RateLimitError struct {
	RetryAfter time.Duration
	Response   *HTTPError
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	if e.Response == nil {
		return nil
	}
	return e.Response
}

// CircuitBreakerError indicates the circuit breaker is open.
type CircuitBreakerError struct{}

func (e *CircuitBreakerError) Error() string {
	return "circuit breaker is open, too many recent failures"
}

// IsMissingParameter checks if the error is a client-side validation failure.
func IsMissingParameter(err error) bool {
	var e *MissingParameterError
	return errors.As(err, &e)
}

// IsRateLimitError checks if the error is a rate limit error.
func IsRateLimitError(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

// IsCircuitBreakerError checks if the error is a circuit breaker error.
func IsCircuitBreakerError(err error) bool {
	var e *CircuitBreakerError
	return errors.As(err, &e)
}

// IsNetworkError checks if the error came from the network layer.
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// newHTTPError builds an HTTPError from a raw response.
func newHTTPError(status int, header http.Header, body []byte) *HTTPError {
	code, msg := parseErrorEnvelope(body)
	return &HTTPError{
		StatusCode: status,
		Code:       code,
		Message:    msg,
		Body:       body,
		Header:     header,
		RequestID:  requestIDFromHeader(header),
	}
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

// parseErrorEnvelope extracts code and message from an error body without
// echoing anything else the server sent back.
func parseErrorEnvelope(body []byte) (string, string) {
	var env struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
		Errors  any    `json:"errors"`
	}
	if len(body) == 0 {
		return "", ""
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", "API request failed (response body redacted for security)"
	}

	var code string
	switch c := env.Code.(type) {
	case string:
		code = c
	case float64:
		code = fmt.Sprintf("%g", c)
	}

	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	if details := formatValidationErrors(env.Errors); details != "" {
		if msg != "" {
			msg += "\n"
		}
		msg += "Validation errors:\n" + details
	}
	return code, msg
}

// formatValidationErrors handles both {"f": "msg"} and {"f": ["msg"]} shapes.
func formatValidationErrors(v any) string {
	errMap, ok := v.(map[string]any)
	if !ok || len(errMap) == 0 {
		return ""
	}
	var lines []string
	for field, value := range errMap {
		switch val := value.(type) {
		case string:
			lines = append(lines, fmt.Sprintf("  %s: %s", field, val))
		case []any:
			for _, m := range val {
				if s, ok := m.(string); ok {
					lines = append(lines, fmt.Sprintf("  %s: %s", field, s))
				}
			}
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
