// Package dryrun renders previews of requests that --dry-run intercepts.
package dryrun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/debug"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode set.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether dry-run mode is set in ctx.
func IsEnabled(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}

// Preview describes a request that was not sent.
type Preview struct {
	Operation string            `json:"operation"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      any               `json:"body,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// FromRequest builds a preview from a recorded transport request with
// credentials masked.
func FromRequest(tr *api.TransportRequest) *Preview {
	p := &Preview{
		Operation: tr.Operation,
		Method:    tr.Method,
		URL:       api.ResolveURL(tr),
		Headers:   debug.RedactHeaders(tr.Header),
		Body:      tr.Body,
	}
	if raw, ok := tr.Body.(json.RawMessage); ok {
		var decoded any
		if json.Unmarshal(raw, &decoded) == nil {
			p.Body = decoded
		}
	}
	if tr.Header.Get("Authorization") == "" {
		p.Warnings = append(p.Warnings, "no token configured; request would be sent without Authorization")
	}
	return p
}

// Write prints the preview as text.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s (%s)\n", p.Method, p.URL, p.Operation)
	_, _ = fmt.Fprintln(w, "───────────────────────────────────────")

	if len(p.Headers) > 0 {
		keys := make([]string, 0, len(p.Headers))
		for k := range p.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", k, p.Headers[k])
		}
		_, _ = fmt.Fprintln(w)
	}

	if p.Body != nil {
		data, err := json.MarshalIndent(p.Body, "  ", "  ")
		if err == nil {
			_, _ = fmt.Fprintf(w, "  %s\n\n", data)
		}
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "───────────────────────────────────────")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}
