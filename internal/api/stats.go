package api

import "context"

// StatsData is the payload of a stats record.
type StatsData struct {
	Value float64 `json:"value"`
}

// Stats is a per-user, per-date counter.
type Stats struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt string    `json:"createdAt,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
	User      string    `json:"user"`
	Date      string    `json:"date"`
	Data      StatsData `json:"data"`
}

// StatsFilter holds the list filters of the stats endpoint.
type StatsFilter struct {
	User     string
	DateFrom string
	DateTo   string
}

// Apply maps DateFrom and DateTo to $gt and $lt on date.
func (f StatsFilter) Apply(q *Query) *Query {
	if f.User != "" {
		q.Where("user", f.User)
	}
	date := map[string]any{}
	if f.DateFrom != "" {
		date["$gt"] = f.DateFrom
	}
	if f.DateTo != "" {
		date["$lt"] = f.DateTo
	}
	if len(date) > 0 {
		q.Where("date", date)
	}
	return q
}

// CreateStats creates or updates a stats record.
func (s StatsService) CreateStats(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpCreateStats, req)
}

// ListStats requires a non-nil Query.
func (s StatsService) ListStats(ctx context.Context, req Request) (*Response, error) {
	return s.Call(ctx, OpListStats, req)
}
