// Package cli holds input parsing shared by commands.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the date format stats records are keyed by.
const DayLayout = "2006-01-02"

// Matches: "2h ago", "30m ago", "1d ago", "2w ago", "1mo ago"
var agoRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)\s*ago$`)

// ParseTime parses a point in time given as RFC3339, YYYY-MM-DD, "today",
// "yesterday", "tomorrow", a weekday ("mon", "last fri", "next tue") or a
// relative expression such as "7d ago".
func ParseTime(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if m := agoRegex.FindStringSubmatch(input); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return ago(now, n, m[2]), nil
	}

	if t, err := time.ParseInLocation(DayLayout, raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time expression %q (use YYYY-MM-DD, RFC3339, yesterday or 7d ago)", raw)
}

// ParseDay is ParseTime truncated to a YYYY-MM-DD day in now's location.
func ParseDay(s string, now time.Time) (string, error) {
	t, err := ParseTime(s, now)
	if err != nil {
		return "", err
	}
	return t.In(now.Location()).Format(DayLayout), nil
}

// FormatTime renders t the way the API stores timestamps.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseWeekday resolves a bare weekday to the coming one (today included),
// "next" to the one after today and "last" to the one before today.
func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	direction := 0
	switch {
	case strings.HasPrefix(expr, "next "):
		direction = 1
		expr = strings.TrimPrefix(expr, "next ")
	case strings.HasPrefix(expr, "last "):
		direction = -1
		expr = strings.TrimPrefix(expr, "last ")
	case strings.HasPrefix(expr, "this "):
		expr = strings.TrimPrefix(expr, "this ")
	}

	weekday, ok := weekdays[strings.TrimSpace(expr)]
	if !ok {
		return time.Time{}, false
	}

	base := startOfDay(now)
	if direction < 0 {
		back := (int(base.Weekday()) - int(weekday) + 7) % 7
		if back == 0 {
			back = 7
		}
		return base.AddDate(0, 0, -back), true
	}
	delta := (int(weekday) - int(base.Weekday()) + 7) % 7
	if direction > 0 && delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, delta), true
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

func ago(now time.Time, n int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, -n, 0)
	case "w":
		return now.AddDate(0, 0, -7*n)
	case "d":
		return now.AddDate(0, 0, -n)
	case "h":
		return now.Add(-time.Duration(n) * time.Hour)
	default:
		return now.Add(-time.Duration(n) * time.Minute)
	}
}
