package api

import (
	"context"
	"net/http"
	"sync"
)

// RecordingTransport keeps every request it receives and answers with Respond,
// or with an empty 200 when Respond is nil. It backs --dry-run.
type RecordingTransport struct {
	Respond func(*TransportRequest) (*Response, error)

	mu       sync.Mutex
	requests []*TransportRequest
}

var _ Transport = (*RecordingTransport)(nil)

func (t *RecordingTransport) Do(ctx context.Context, tr *TransportRequest) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.requests = append(t.requests, tr)
	t.mu.Unlock()

	if t.Respond != nil {
		return t.Respond(tr)
	}
	return &Response{StatusCode: http.StatusOK, Header: http.Header{}}, nil
}

// Requests returns the recorded requests in arrival order.
func (t *RecordingTransport) Requests() []*TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*TransportRequest(nil), t.requests...)
}

// Last returns the most recent request or nil.
func (t *RecordingTransport) Last() *TransportRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return nil
	}
	return t.requests[len(t.requests)-1]
}

// Calls returns the number of recorded requests.
func (t *RecordingTransport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}
