package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestWithQuery(t *testing.T) {
	if GetQuery(context.Background()) != "" {
		t.Error("expected empty query by default")
	}
	if got := GetQuery(WithQuery(context.Background(), ".id")); got != ".id" {
		t.Errorf("expected .id, got %q", got)
	}
}

func TestWriteJSONFiltered(t *testing.T) {
	data := map[string]any{"id": "o1", "fee": 12.5}

	var buf bytes.Buffer
	if err := WriteJSONFiltered(&buf, data, "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"fee\": 12.5") {
		t.Errorf("expected pretty output, got %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSONFiltered(&buf, data, ".id", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `"o1"` {
		t.Errorf("expected \"o1\", got %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSONFiltered(&buf, data, "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "{\"fee\":12.5,\"id\":\"o1\"}\n" {
		t.Errorf("expected compact output, got %q", buf.String())
	}

	buf.Reset()
	if err := WriteJSONFiltered(&buf, data, "invalid[[[", false); err == nil {
		t.Error("expected error for invalid query")
	}
}

func TestWriteJSONFiltered_WrapsSlice(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONFiltered(&buf, []string{"a", "b"}, ".items | length", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "2" {
		t.Errorf("expected 2, got %q", buf.String())
	}
}

func TestWriteJSONFiltered_RawMessageUnchanged(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONFiltered(&buf, json.RawMessage(`{"ok":true}`), "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != `{"ok":true}` {
		t.Errorf("got %q", buf.String())
	}
}

func TestApplyQuery(t *testing.T) {
	type order struct {
		ID   string `json:"id"`
		Paid bool   `json:"paid"`
	}
	orders := []order{{ID: "o1", Paid: true}, {ID: "o2"}}

	got, err := ApplyQuery(orders, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got.(map[string]any)["items"]; !ok {
		t.Errorf("expected items wrapper, got %v", got)
	}

	got, err = ApplyQuery(orders, `[.items[] | select(.paid) | .id]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, ok := got.([]any)
	if !ok || len(ids) != 1 || ids[0] != "o1" {
		t.Errorf("expected [o1], got %v", got)
	}

	if _, err := ApplyQuery(orders, "invalid[[["); err == nil {
		t.Error("expected error for invalid query")
	}
}
