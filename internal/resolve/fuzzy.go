// Package resolve maps human input such as a product name or reply keyword to
// a store resource ID.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Named represents any resource with an ID and display name.
type Named struct {
	ID   string
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    string
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError indicates multiple candidates matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

type namedSourceLower []Named

func (s namedSourceLower) String(i int) string { return strings.ToLower(s[i].Name) }
func (s namedSourceLower) Len() int            { return len(s) }

// LooksLikeID reports whether s is a 24 character hex object id, which the
// store backend uses for every resource.
func LooksLikeID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// FuzzyMatch finds the best matching item by name and returns its ID.
//
// An exact case-insensitive name or ID match wins. Otherwise the top fuzzy
// result is used, and a tie between the top two is an *AmbiguousError.
func FuzzyMatch(query string, items []Named) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(items) == 0 {
		return "", ErrEmptyItems
	}

	for _, item := range items {
		if item.ID == query || strings.EqualFold(item.Name, query) {
			return item.ID, nil
		}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), namedSourceLower(items))
	if len(results) == 0 {
		return "", fmt.Errorf("no match found for %q", query)
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return "", &AmbiguousError{
			Query:   query,
			Matches: buildMatches(items, results, 5),
		}
	}
	return items[results[0].Index].ID, nil
}

// FuzzyMatchAll returns up to limit matches ranked by score (best first).
func FuzzyMatchAll(query string, items []Named, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 || limit <= 0 {
		return nil
	}
	results := fuzzy.FindFrom(strings.ToLower(query), namedSourceLower(items))
	return buildMatches(items, results, limit)
}

func buildMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) == 0 || limit <= 0 {
		return nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:    items[r.Index].ID,
			Name:  items[r.Index].Name,
			Score: r.Score,
		}
	}
	return matches
}
