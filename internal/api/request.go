package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Request describes one call. Which fields are read depends on the operation.
type Request struct {
	PathParams map[string]string
	Query      *Query
	Body       any
	Headers    http.Header
}

// TransportRequest is what the client hands to a Transport.
type TransportRequest struct {
	Operation string
	Method    string
	URL       string
	Query     url.Values
	Body      any
	Header    http.Header
}

// Transport performs a built request. Implementations own connection
// handling, encoding, retries and error mapping.
type Transport interface {
	Do(ctx context.Context, req *TransportRequest) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*Response, error)

func (f TransportFunc) Do(ctx context.Context, req *TransportRequest) (*Response, error) {
	return f(ctx, req)
}

// Normalizer converts a structured query into transport query values.
type Normalizer interface {
	Normalize(q *Query) (url.Values, error)
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(q *Query) (url.Values, error)

func (f NormalizerFunc) Normalize(q *Query) (url.Values, error) {
	return f(q)
}

// Response is the raw result of a transport call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// TotalCount returns the X-Total-Count header used by list endpoints.
func (r *Response) TotalCount() (int, bool) {
	if r == nil || r.Header == nil {
		return 0, false
	}
	raw := strings.TrimSpace(r.Header.Get("X-Total-Count"))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Decode is a helper for typed results:
//
//	members, err := api.Decode[[]api.Member](client.Member().ListMembers(ctx, req))
func Decode[T any](resp *Response, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
