package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Errorf("unexpected Accept header %q", r.Header.Get("Accept"))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, HTTP: srv.Client()}
}

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]string{
		"1.2.3":   "v1.2.3",
		"v1.2.3":  "v1.2.3",
		" 1.0.0 ": "v1.0.0",
		"":        "v",
	}
	for in, want := range tests {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		tag       string
		available bool
	}{
		{"patch", "1.2.3", "v1.2.4", true},
		{"minor", "1.2.3", "v1.3.0", true},
		{"major", "v1.2.3", "2.0.0", true},
		{"same", "1.2.3", "v1.2.3", false},
		{"newer local", "1.3.0", "v1.2.9", false},
		{"prerelease to release", "1.0.0-rc.1", "v1.0.0", true},
		{"invalid current", "nightly", "v1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_NO_UPDATE_CHECK", "")
			c := releaseServer(t, http.StatusOK, `{"tag_name":"`+tt.tag+`","html_url":"https://github.com/36node/store-cli/releases/x"}`)
			result := c.Check(context.Background(), tt.current)
			if result == nil {
				t.Fatal("expected result")
			}
			if result.UpdateAvailable != tt.available {
				t.Fatalf("UpdateAvailable = %v, want %v (%+v)", result.UpdateAvailable, tt.available, result)
			}
		})
	}
}

func TestCheck_ReturnsNil(t *testing.T) {
	t.Setenv("STORE_NO_UPDATE_CHECK", "")
	tests := []struct {
		name    string
		status  int
		body    string
		current string
	}{
		{"dev build", http.StatusOK, `{"tag_name":"v9.9.9"}`, "dev"},
		{"empty version", http.StatusOK, `{"tag_name":"v9.9.9"}`, ""},
		{"server error", http.StatusInternalServerError, "", "1.0.0"},
		{"rate limited", http.StatusTooManyRequests, "", "1.0.0"},
		{"invalid json", http.StatusOK, "{", "1.0.0"},
		{"empty tag", http.StatusOK, `{"tag_name":""}`, "1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := releaseServer(t, tt.status, tt.body)
			if got := c.Check(context.Background(), tt.current); got != nil {
				t.Fatalf("expected nil, got %+v", got)
			}
		})
	}
}

func TestCheck_DisabledByEnv(t *testing.T) {
	t.Setenv("STORE_NO_UPDATE_CHECK", "1")
	c := &Checker{URL: "http://127.0.0.1:0", HTTP: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})}}
	if got := c.Check(context.Background(), "1.0.0"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestCheck_ContextCanceled(t *testing.T) {
	t.Setenv("STORE_NO_UPDATE_CHECK", "")
	c := releaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := c.Check(ctx, "1.0.0"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestNotice(t *testing.T) {
	var nilResult *CheckResult
	if nilResult.Notice() != "" {
		t.Fatal("nil result should have no notice")
	}
	r := &CheckResult{CurrentVersion: "1.0.0", LatestVersion: "1.1.0", UpdateURL: "https://x", UpdateAvailable: true}
	if got := r.Notice(); got != "A new version of store is available: 1.0.0 -> 1.1.0 (https://x)" {
		t.Fatalf("unexpected notice %q", got)
	}
	r.UpdateAvailable = false
	if r.Notice() != "" {
		t.Fatal("no notice when up to date")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
