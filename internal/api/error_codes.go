package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a machine-readable error classification for JSON error output.
type ErrorCode string

const (
	ErrBadRequest       ErrorCode = "bad_request"
	ErrUnauthorized     ErrorCode = "unauthorized"
	ErrForbidden        ErrorCode = "forbidden"
	ErrNotFound         ErrorCode = "not_found"
	ErrConflict         ErrorCode = "conflict"
	ErrValidation       ErrorCode = "validation_failed"
	ErrMissingParameter ErrorCode = "missing_parameter"
	ErrRateLimited      ErrorCode = "rate_limited"
	ErrServerError      ErrorCode = "server_error"
	ErrNetwork          ErrorCode = "network_error"
	ErrTimeout          ErrorCode = "timeout"
	ErrCircuitOpen      ErrorCode = "circuit_open"
	ErrUnknown          ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrNetwork, ErrTimeout, ErrCircuitOpen:
		return true
	default:
		return false
	}
}

// Suggestion returns a short hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Run 'store auth login' to authenticate"
	case ErrForbidden:
		return "Check that the token has access to this resource"
	case ErrNotFound:
		return "Verify the resource ID exists"
	case ErrRateLimited:
		return "Wait a moment and retry"
	case ErrValidation, ErrBadRequest:
		return "Check the request body and parameters"
	case ErrMissingParameter:
		return "Pass the required argument or --body"
	case ErrConflict:
		return "The resource state may have changed; refresh and retry"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrNetwork:
		return "Check the base URL and network connectivity"
	case ErrTimeout:
		return "The request timed out; increase --timeout or retry"
	case ErrCircuitOpen:
		return "Too many recent failures; wait before retrying"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 422:
		return ErrValidation
	case 429:
		return ErrRateLimited
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError is the JSON shape of an error.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError reports a flag value outside an allowed set.
func NewValidationError(field string, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

func structuredFromHTTPError(httpErr *HTTPError) *StructuredError {
	code := ErrorCodeFromStatus(httpErr.StatusCode)
	ctx := map[string]any{"status_code": httpErr.StatusCode}
	if httpErr.RequestID != "" {
		ctx["request_id"] = httpErr.RequestID
	}
	if httpErr.Code != "" {
		ctx["api_code"] = httpErr.Code
	}
	msg := httpErr.Message
	if msg == "" {
		msg = httpErr.Error()
	}
	se := NewStructuredError(code, msg)
	se.Context = ctx
	return se
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var missing *MissingParameterError
	if errors.As(err, &missing) {
		se := NewStructuredError(ErrMissingParameter, missing.Error())
		se.Context = map[string]any{"operation": missing.Operation, "field": string(missing.Field)}
		return se
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		se := NewStructuredError(ErrRateLimited, rateLimitErr.Error())
		se.Context = map[string]any{"retry_after": rateLimitErr.RetryAfter.String()}
		return se
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return structuredFromHTTPError(httpErr)
	}

	var cbErr *CircuitBreakerError
	if errors.As(err, &cbErr) {
		return NewStructuredError(ErrCircuitOpen, cbErr.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewStructuredError(ErrTimeout, err.Error())
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		se := NewStructuredError(ErrNetwork, netErr.Error())
		se.Context = map[string]any{"method": netErr.Method, "url": netErr.URL}
		return se
	}

	return &StructuredError{Code: ErrUnknown, Message: err.Error()}
}
