package api

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestQueryNormalizer(t *testing.T) {
	when := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query *Query
		want  url.Values
	}{
		{"nil query", nil, url.Values{}},
		{"empty query", &Query{}, url.Values{}},
		{
			"paging",
			&Query{Limit: 10, Offset: 20, Sort: "-createdAt", Select: "user,active", Populate: "product"},
			url.Values{"_limit": {"10"}, "_offset": {"20"}, "_sort": {"-createdAt"}, "_select": {"user,active"}, "_populate": {"product"}},
		},
		{
			"scalars",
			NewQuery().Where("active", true).Where("user", "u1").Where("period", 30),
			url.Values{"active": {"true"}, "user": {"u1"}, "period": {"30"}},
		},
		{
			"slice repeats key",
			NewQuery().Where("users", []string{"u1", "u2"}),
			url.Values{"users": {"u1", "u2"}},
		},
		{
			"range operators",
			NewQuery().Where("date", map[string]any{"$gt": "2024-01-01", "$lt": "2024-02-01"}),
			url.Values{"date_gt": {"2024-01-01"}, "date_lt": {"2024-02-01"}},
		},
		{
			"inclusive and not equal",
			NewQuery().Where("fee", map[string]any{"$gte": 1.5, "$lte": 10}).Where("status", map[string]any{"$ne": "closed"}),
			url.Values{"fee_gte": {"1.5"}, "fee_lte": {"10"}, "status_ne": {"closed"}},
		},
		{
			"in and nin",
			NewQuery().Where("method", map[string]any{"$in": []string{"wechat", "alipay"}, "$nin": []any{"cash"}}),
			url.Values{"method": {"wechat", "alipay"}, "method_ne": {"cash"}},
		},
		{
			"regex",
			NewQuery().Where("keyword", map[string]string{"$regex": "^hi"}),
			url.Values{"keyword_like": {"^hi"}},
		},
		{
			"nested map flattens",
			NewQuery().Where("data", map[string]any{"value": map[string]any{"$gt": 3}}),
			url.Values{"data.value_gt": {"3"}},
		},
		{
			"time",
			NewQuery().Where("paidAt", map[string]any{"$gte": when}),
			url.Values{"paidAt_gte": {"2024-03-01T08:00:00Z"}},
		},
		{
			"nil filter value skipped",
			NewQuery().Where("user", nil),
			url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryNormalizer{}.Normalize(tt.query)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryNormalizer_SortedEncoding(t *testing.T) {
	q := NewQuery().Where("z", 1).Where("a", 2).Where("m", map[string]any{"$lt": 3, "$gt": 0})
	q.Limit = 5
	got, err := QueryNormalizer{}.Normalize(q)
	if err != nil {
		t.Fatal(err)
	}
	if enc := got.Encode(); enc != "_limit=5&a=2&m_gt=0&m_lt=3&z=1" {
		t.Errorf("Encode() = %s", enc)
	}
}

func TestQueryNormalizer_UnknownOperator(t *testing.T) {
	_, err := QueryNormalizer{}.Normalize(NewQuery().Where("date", map[string]any{"$between": []int{1, 2}}))
	if err == nil || !strings.Contains(err.Error(), `unsupported query operator "$between" on date`) {
		t.Fatalf("expected unsupported operator error, got %v", err)
	}
}

func TestQueryNormalizer_UnsupportedValue(t *testing.T) {
	_, err := QueryNormalizer{}.Normalize(NewQuery().Where("user", struct{}{}))
	if err == nil {
		t.Fatal("expected error for struct value")
	}
}

func TestQueryNormalizer_DoesNotMutateQuery(t *testing.T) {
	q := NewQuery().Where("date", map[string]any{"$gt": "2024-01-01"})
	q.Limit = 3
	before := map[string]any{"date": map[string]any{"$gt": "2024-01-01"}}
	if _, err := (QueryNormalizer{}).Normalize(q); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(q.Filter, before) || q.Limit != 3 {
		t.Errorf("query mutated: %+v", q)
	}
}

func TestFilters_Apply(t *testing.T) {
	active := true
	tests := []struct {
		name string
		q    *Query
		want url.Values
	}{
		{"member", MemberFilter{Users: []string{"u1", "u2"}, Active: &active}.Apply(NewQuery()), url.Values{"users": {"u1", "u2"}, "active": {"true"}}},
		{"product", ProductFilter{Published: &active}.Apply(NewQuery()), url.Values{"published": {"true"}}},
		{"order", OrderFilter{Method: "wechat", CreatedBy: "admin"}.Apply(NewQuery()), url.Values{"method": {"wechat"}, "createdBy": {"admin"}}},
		{"stats", StatsFilter{User: "u1", DateFrom: "2024-01-01", DateTo: "2024-01-31"}.Apply(NewQuery()), url.Values{"user": {"u1"}, "date_gt": {"2024-01-01"}, "date_lt": {"2024-01-31"}}},
		{"invitation", InvitationFilter{Code: "ABC", Used: "false"}.Apply(NewQuery()), url.Values{"code": {"ABC"}, "used": {"false"}}},
		{"reply", ReplyFilter{Active: &active}.Apply(NewQuery()), url.Values{"active": {"true"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryNormalizer{}.Normalize(tt.q)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
