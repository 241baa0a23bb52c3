package api

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
)

// Options holds the client configuration.
type Options struct {
	BaseURL string
	Token   string
}

// Client is the store API client.
//
// Every operation in the catalogue goes through Do: required fields are
// checked, the URL is built from BaseURL and the operation's path template,
// the bearer token is merged under the caller's headers, and the request is
// handed to the Transport. The transport's result is returned as-is.
//
// A Client holds no mutable state besides BaseURL and Token and is safe for
// concurrent use as long as those are not reassigned while calls are in flight.
type Client struct {
	BaseURL string
	Token   string

	transport  Transport
	normalizer Normalizer
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the transport collaborator.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithNormalizer sets the query normalization collaborator.
func WithNormalizer(n Normalizer) Option {
	return func(c *Client) {
		if n != nil {
			c.normalizer = n
		}
	}
}

// New creates a store API client. Without WithTransport the client uses a
// default HTTPTransport.
func New(opts Options, options ...Option) *Client {
	c := &Client{
		BaseURL:    opts.BaseURL,
		Token:      opts.Token,
		normalizer: QueryNormalizer{},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport()
	}
	return c
}

// Transport returns the transport the client dispatches to.
func (c *Client) Transport() Transport {
	return c.transport
}

// Auth returns the Authorization header value. It is empty when no token is set.
func (c *Client) Auth() string {
	if c.Token != "" {
		return "Bearer " + c.Token
	}
	return ""
}

// Call dispatches the named catalogue operation.
func (c *Client) Call(ctx context.Context, name string, req Request) (*Response, error) {
	op, ok := LookupOperation(name)
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}
	return c.Do(ctx, op, req)
}

// Do validates req against op, builds the transport request and dispatches it.
// A MissingParameterError is returned before the transport is touched.
func (c *Client) Do(ctx context.Context, op Operation, req Request) (*Response, error) {
	tr, err := c.Build(op, req)
	if err != nil {
		return nil, err
	}
	return c.transport.Do(ctx, tr)
}

// Build turns a request descriptor into a transport request without sending it.
func (c *Client) Build(op Operation, req Request) (*TransportRequest, error) {
	if err := op.validate(req); err != nil {
		return nil, err
	}

	tr := &TransportRequest{
		Operation: op.Name,
		Method:    op.Method,
		URL:       c.BaseURL + op.expand(req.PathParams),
		Header:    c.mergeHeaders(req.Headers),
	}
	if op.AcceptsQuery {
		values, err := c.normalizer.Normalize(req.Query)
		if err != nil {
			return nil, err
		}
		tr.Query = values
	}
	if op.HasBody {
		tr.Body = req.Body
	}
	return tr, nil
}

// mergeHeaders lays the caller's headers over the default Authorization header.
func (c *Client) mergeHeaders(callerHeaders http.Header) http.Header {
	h := http.Header{}
	h.Set("Authorization", c.Auth())
	for k, v := range callerHeaders {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	return h
}

func (op Operation) validate(req Request) error {
	for _, field := range op.Required {
		if !fieldPresent(field, req) {
			return &MissingParameterError{Operation: op.Name, Field: field}
		}
	}
	return nil
}

func fieldPresent(field Field, req Request) bool {
	switch field {
	case FieldQuery:
		return req.Query != nil
	case FieldBody:
		return bodyPresent(req.Body)
	default:
		return req.PathParams[string(field)] != ""
	}
}

func bodyPresent(body any) bool {
	if body == nil {
		return false
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return !v.IsNil()
	case reflect.String:
		return v.Len() > 0
	}
	return true
}

// expand substitutes {name} placeholders in the path template. Values are
// inserted verbatim; callers pass URL-safe identifiers.
func (op Operation) expand(params map[string]string) string {
	path := op.Path
	for _, name := range op.pathParams() {
		path = strings.ReplaceAll(path, "{"+name+"}", params[name])
	}
	return path
}

// pathParams returns the placeholder names of the path template in order.
func (op Operation) pathParams() []string {
	var names []string
	rest := op.Path
	for {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return names
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return names
		}
		names = append(names, rest[start+1:start+end])
		rest = rest[start+end+1:]
	}
}

// ResolveURL joins a transport request's URL and query into one string.
func ResolveURL(tr *TransportRequest) string {
	if len(tr.Query) == 0 {
		return tr.URL
	}
	sep := "?"
	if strings.Contains(tr.URL, "?") {
		sep = "&"
	}
	return tr.URL + sep + tr.Query.Encode()
}

// PathValues is a convenience for building Request.PathParams.
func PathValues(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}
