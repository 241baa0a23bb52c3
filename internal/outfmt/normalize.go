package outfmt

import (
	"encoding/json"
	"reflect"
)

// ListMeta accompanies list output. Total comes from X-Total-Count.
type ListMeta struct {
	Total     *int           `json:"total,omitempty"`
	Limit     int            `json:"limit,omitempty"`
	Offset    int            `json:"offset,omitempty"`
	RateLimit map[string]any `json:"rate_limit,omitempty"`
}

// List is the JSON envelope for list results.
type List struct {
	Items any       `json:"items"`
	Meta  *ListMeta `json:"meta,omitempty"`
}

// NewList wraps items with meta. Nil slices become empty arrays.
func NewList(items any, meta *ListMeta) List {
	return List{Items: emptyIfNil(items), Meta: meta}
}

func normalizeJSONOutput(v any) any {
	if v == nil {
		return v
	}
	switch v.(type) {
	case []byte, json.RawMessage, List, *List:
		return v
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return map[string]any{"items": emptyIfNil(rv.Interface())}
	default:
		return v
	}
}

// Nil slices serialize as null, which breaks jq .items[].
func emptyIfNil(items any) any {
	if items == nil {
		return []any{}
	}
	rv := reflect.ValueOf(items)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}
	}
	return items
}

// listItems returns the elements of a slice value as []any.
func listItems(items any) []any {
	rv := reflect.ValueOf(items)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{items}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
