package outfmt

import (
	"context"
	"encoding/json"
	"io"

	"github.com/36node/store-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq query to the context
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery retrieves the jq query from context
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WriteJSONFiltered writes JSON with optional jq filtering.
func WriteJSONFiltered(w io.Writer, v any, query string, compact bool) error {
	v = normalizeJSONOutput(v)
	if query == "" {
		return WriteJSONMaybeCompact(w, v, compact)
	}
	result, err := ApplyQuery(v, query)
	if err != nil {
		return err
	}
	return WriteJSONMaybeCompact(w, result, compact)
}

// ApplyQuery applies a jq query to structured data and returns the filtered
// value. Data is round-tripped through JSON so struct tags decide field names.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeJSONOutput(v)
	if query == "" {
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return filter.ApplyFromJSON(data, query)
}
