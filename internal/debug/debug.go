// Package debug carries the --debug switch through contexts and configures slog.
package debug

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey struct{}

// WithDebug returns a context with debug mode set.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether debug mode is set in ctx.
func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// SetupLogger installs a text slog handler on w: Debug level when enabled,
// Warn otherwise.
func SetupLogger(w io.Writer, enabled bool) *slog.Logger {
	level := slog.LevelWarn
	if enabled {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

var secretHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

// RedactHeaders returns a loggable copy of h with credentials masked.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		v := strings.Join(vs, ", ")
		if secretHeaders[http.CanonicalHeaderKey(k)] && v != "" {
			v = redact(v)
		}
		out[k] = v
	}
	return out
}

// redact keeps an auth scheme and the last four characters.
func redact(v string) string {
	scheme, secret, found := strings.Cut(v, " ")
	if !found {
		scheme, secret = "", v
	}
	masked := "****"
	if len(secret) > 8 {
		masked += secret[len(secret)-4:]
	}
	if scheme != "" {
		return scheme + " " + masked
	}
	return masked
}
