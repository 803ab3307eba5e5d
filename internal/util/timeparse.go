package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dayLayouts are the absolute forms accepted by --since/--until, most specific first.
var dayLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// unitSpans maps the day-scale suffixes to a "n units ago" function.
// Anything else falls through to time.ParseDuration ("90m", "2h").
var unitSpans = []struct {
	suffix string
	back   func(now time.Time, n int) time.Time
}{
	{"mo", func(now time.Time, n int) time.Time { return now.AddDate(0, -n, 0) }},
	{"w", func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -7*n) }},
	{"d", func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -n) }},
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseTimeExpr resolves a time expression against now: "today" and
// "yesterday" (midnight in now's zone), "3d", "2w", "1mo", Go durations,
// or an absolute date.
func ParseTimeExpr(expr string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	switch s {
	case "":
		return time.Time{}, fmt.Errorf("empty time expression")
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	for _, u := range unitSpans {
		num, ok := strings.CutSuffix(s, u.suffix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid %s count in %q", u.suffix, expr)
		}
		return u.back(now, n), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(expr)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time expression: %q", expr)
}

// ParseTimeRange resolves --since/--until. Empty bounds stay zero (unbounded)
// and a reversed range is swapped.
func ParseTimeRange(since, until string, now time.Time) (from, to time.Time, err error) {
	if since != "" {
		if from, err = ParseTimeExpr(since, now); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until != "" {
		if to, err = ParseTimeExpr(until, now); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		from, to = to, from
	}
	return from, to, nil
}
