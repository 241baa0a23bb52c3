package filter

import (
	"bytes"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"name": "latte"}
	result, err := Apply(data, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["name"] != "latte" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	data := map[string]any{"name": "latte", "id": "p1"}
	result, err := Apply(data, ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "latte" {
		t.Errorf("expected 'latte', got %v", result)
	}
}

func TestApply_FilterArray(t *testing.T) {
	data := []any{
		map[string]any{"paid": true, "id": "o1"},
		map[string]any{"paid": false, "id": "o2"},
	}
	result, err := Apply(data, `.[] | select(.paid == false)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]any)
	if m["id"] != "o2" {
		t.Errorf("expected order o2, got %v", m["id"])
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	_, err := Apply(map[string]any{"name": "latte"}, "invalid[[[")
	if err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestApply_ShellEscapedNotEqual(t *testing.T) {
	data := []any{
		map[string]any{"code": nil},
		map[string]any{"code": "ABC123"},
	}
	result, err := Apply(data, `.[] | select(.code \!= null)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["code"] != "ABC123" {
		t.Errorf("expected code ABC123, got %v", result)
	}
}

func TestNormalizeExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`select(.x \!= null)`, `select(.x != null)`},
		{`select(.x != null)`, `select(.x != null)`},
		{`.[] | select(.a \!= .b)`, `.[] | select(.a != .b)`},
		{`select(.x == "test")`, `select(.x == "test")`},
	}
	for _, tt := range tests {
		if got := NormalizeExpression(tt.input); got != tt.expected {
			t.Errorf("NormalizeExpression(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestApplyToJSON(t *testing.T) {
	result, err := ApplyToJSON([]byte(`{"name": "latte", "id": "p1"}`), ".name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(result, []byte(`"latte"`)) {
		t.Errorf("expected filtered output, got %s", result)
	}

	raw := []byte(`{"name": "latte"}`)
	same, err := ApplyToJSON(raw, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(raw, same) {
		t.Error("empty expression should return original JSON unchanged")
	}

	if _, err := ApplyToJSON([]byte(`{invalid}`), ".name"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApplyFromJSON(t *testing.T) {
	result, err := ApplyFromJSON([]byte(`{"name": "latte", "id": 42}`), ".id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != float64(42) {
		t.Errorf("expected 42, got %v (%T)", result, result)
	}
	if _, err := ApplyFromJSON([]byte(`{invalid}`), ".name"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestApply_RootArrayQueryFallsBackToItems(t *testing.T) {
	data := map[string]any{
		"items": []any{
			map[string]any{"member": map[string]any{"id": 11}},
			map[string]any{"member": map[string]any{"id": 22}},
		},
		"meta": map[string]any{"total": 2},
	}

	result, err := Apply(data, `.[].member.id`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, ok := result.([]any)
	if !ok {
		t.Fatalf("expected []any result, got %T (%v)", result, result)
	}
	if len(values) != 2 || values[0] != 11 || values[1] != 22 {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestApply_RootArrayQueryWithoutItemsStillErrors(t *testing.T) {
	data := map[string]any{"payload": []any{map[string]any{"id": 1}}}
	if _, err := Apply(data, `.[].id`); err == nil {
		t.Fatal("expected error for root-array query on non-items object")
	}
}
