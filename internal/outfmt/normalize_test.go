package outfmt

import (
	"encoding/json"
	"testing"
)

type product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNormalizeJSONOutput(t *testing.T) {
	var nilSlice []product
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil slice", nilSlice, `{"items":[]}`},
		{"empty slice", []product{}, `{"items":[]}`},
		{"populated", []product{{ID: "p1", Name: "latte"}}, `{"items":[{"id":"p1","name":"latte"}]}`},
		{"pointer to slice", &[]string{"a"}, `{"items":["a"]}`},
		{"map", map[string]any{"id": "m1"}, `{"id":"m1"}`},
		{"raw", json.RawMessage(`[1,2]`), `[1,2]`},
		{"list envelope", NewList(nilSlice, nil), `{"items":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(normalizeJSONOutput(tt.in))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}

	if normalizeJSONOutput(nil) != nil {
		t.Error("nil input should stay nil")
	}
}

func TestNewListMeta(t *testing.T) {
	total := 42
	list := NewList([]product{{ID: "p1"}}, &ListMeta{Total: &total, Limit: 10})
	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"items":[{"id":"p1","name":""}],"meta":{"total":42,"limit":10}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestListItems(t *testing.T) {
	if got := listItems([]int{1, 2, 3}); len(got) != 3 {
		t.Errorf("expected 3 items, got %v", got)
	}
	if got := listItems(map[string]any{"id": 1}); len(got) != 1 {
		t.Errorf("non-slice should be a single item, got %v", got)
	}
	var nilPtr *[]int
	if got := listItems(nilPtr); got != nil {
		t.Errorf("nil pointer should give nil, got %v", got)
	}
}
