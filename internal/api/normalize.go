package api

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
)

// Query is the structured query accepted by list operations.
//
// Filter values may be scalars, slices, nested maps, or operator maps keyed by
// $gt, $gte, $lt, $lte, $ne, $in, $nin or $regex.
type Query struct {
	Limit    int            `schema:"_limit,omitempty" json:"_limit,omitempty"`
	Offset   int            `schema:"_offset,omitempty" json:"_offset,omitempty"`
	Sort     string         `schema:"_sort,omitempty" json:"_sort,omitempty"`
	Select   string         `schema:"_select,omitempty" json:"_select,omitempty"`
	Populate string         `schema:"_populate,omitempty" json:"_populate,omitempty"`
	Filter   map[string]any `schema:"-" json:"filter,omitempty"`
}

// NewQuery returns an empty query ready for Where calls.
func NewQuery() *Query {
	return &Query{Filter: map[string]any{}}
}

// Where sets a filter value and returns q for chaining.
func (q *Query) Where(key string, value any) *Query {
	if q.Filter == nil {
		q.Filter = map[string]any{}
	}
	q.Filter[key] = value
	return q
}

// operatorSuffix maps filter operators to the backend's flat query form.
// An empty suffix repeats the bare key.
var operatorSuffix = map[string]string{
	"$gt":    "_gt",
	"$gte":   "_gte",
	"$lt":    "_lt",
	"$lte":   "_lte",
	"$ne":    "_ne",
	"$nin":   "_ne",
	"$in":    "",
	"$regex": "_like",
}

// QueryNormalizer is the default Normalizer.
type QueryNormalizer struct{}

var pagingEncoder = schema.NewEncoder()

// Normalize flattens q into url.Values. A nil query yields empty values.
func (QueryNormalizer) Normalize(q *Query) (url.Values, error) {
	values := url.Values{}
	if q == nil {
		return values, nil
	}
	if err := pagingEncoder.Encode(q, values); err != nil {
		return nil, fmt.Errorf("encode paging: %w", err)
	}
	keys := sortedKeys(q.Filter)
	for _, k := range keys {
		if err := flatten(values, k, q.Filter[k]); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func flatten(values url.Values, key string, v any) error {
	if v == nil {
		return nil
	}
	if m, ok := asStringMap(v); ok {
		for _, k := range sortedKeys(m) {
			if strings.HasPrefix(k, "$") {
				suffix, known := operatorSuffix[k]
				if !known {
					return fmt.Errorf("unsupported query operator %q on %s", k, key)
				}
				if err := addValue(values, key+suffix, m[k]); err != nil {
					return err
				}
				continue
			}
			if err := flatten(values, key+"."+k, m[k]); err != nil {
				return err
			}
		}
		return nil
	}
	return addValue(values, key, v)
}

func addValue(values url.Values, key string, v any) error {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			s, err := scalarString(rv.Index(i).Interface())
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			values.Add(key, s)
		}
		return nil
	}
	s, err := scalarString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	values.Add(key, s)
	return nil
}

func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.String:
		return rv.String(), nil
	}
	return "", fmt.Errorf("unsupported query value of type %T", v)
}

// asStringMap accepts any map keyed by strings.
func asStringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
