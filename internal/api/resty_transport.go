package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport implements Transport on go-resty. It retries 5xx responses
// of idempotent requests but has no circuit breaker.
type RestyTransport struct {
	Client *resty.Client
}

var _ Transport = (*RestyTransport)(nil)

// NewRestyTransport returns a resty-backed transport with env-tuned retries.
func NewRestyTransport(timeout time.Duration, userAgent string) *RestyTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg := DefaultRetryConfig()
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Max5xxRetries).
		SetRetryWaitTime(cfg.ServerErrorRetryDelay).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil || r.Request == nil {
				return false
			}
			return r.StatusCode() >= 500 && isIdempotent(r.Request.Method, r.Request.Header)
		})
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &RestyTransport{Client: client}
}

// Do sends the request through resty.
func (t *RestyTransport) Do(ctx context.Context, tr *TransportRequest) (*Response, error) {
	req := t.Client.R().SetContext(ctx)
	for k, vs := range tr.Header {
		for _, v := range vs {
			if v != "" {
				req.Header.Add(k, v)
			}
		}
	}
	if len(tr.Query) > 0 {
		req.SetQueryParamsFromValues(tr.Query)
	}
	if tr.Body != nil {
		body, contentType, err := encodeBody(tr.Body)
		if err != nil {
			return nil, err
		}
		req.SetHeader("Content-Type", contentType).SetBody(body)
	}

	resp, err := req.Execute(tr.Method, tr.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Method: tr.Method, URL: ResolveURL(tr), Err: err}
	}

	out := &Response{StatusCode: resp.StatusCode(), Header: resp.Header(), Body: resp.Body()}
	if resp.StatusCode() == http.StatusTooManyRequests {
		retryAfter, _ := retryAfterDuration(resp.Header())
		return out, &RateLimitError{RetryAfter: retryAfter, Response: newHTTPError(out.StatusCode, out.Header, out.Body)}
	}
	if resp.StatusCode() >= 400 {
		return out, newHTTPError(out.StatusCode, out.Header, out.Body)
	}
	return out, nil
}
