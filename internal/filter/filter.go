// Package filter applies jq expressions (via gojq) to decoded JSON values.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression undoes shell escaping that breaks jq operators. Zsh
// turns ! into \! even inside single quotes.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// Apply runs expression against data. A single result is returned as-is;
// several results are returned as a slice.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}
	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	results, err := run(query, data)
	if err != nil {
		// List output is wrapped as {"items": [...]}; let ".[]" style queries
		// address the items directly.
		if items, ok := itemsFallback(data, expression, err); ok {
			if retry, retryErr := run(query, items); retryErr == nil {
				results, err = retry, nil
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// ApplyFromJSON decodes jsonData and applies expression.
func ApplyFromJSON(jsonData []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}

// ApplyToJSON is ApplyFromJSON with pretty-printed JSON output.
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}
	result, err := ApplyFromJSON(jsonData, expression)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

func run(query *gojq.Query, data any) ([]any, error) {
	iter := query.Run(data)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
}

func itemsFallback(data any, expression string, runErr error) (any, bool) {
	expr := strings.TrimSpace(expression)
	rootArray := strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]") || strings.HasPrefix(expr, "(.[]")
	if !rootArray || !strings.Contains(runErr.Error(), "expected an object but got: array") {
		return nil, false
	}
	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := m["items"].([]any)
	return items, ok
}
