package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted absolute layouts for time bounds, tried in order.
var timeBoundLayouts = []string{time.RFC3339, "2006-01-02"}

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago" or "3 weeks ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// durationRe captures "N [units]", e.g. "30 days".
var durationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// unitDurations approximates calendar units as fixed durations.
var unitDurations = map[string]time.Duration{
	"year":   365 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"day":    24 * time.Hour,
	"hour":   time.Hour,
	"minute": time.Minute,
}

// ParseTimeBound parses an absolute (RFC3339 or YYYY-MM-DD) or relative
// ("N units ago") time. An empty string yields the zero time, meaning unbounded.
func ParseTimeBound(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeBoundLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339, YYYY-MM-DD or 'N [units] ago': %w", err)
	}
	return t, nil
}

// ParseRelativeTime converts strings like "2 years ago" into a time in the past.
// Years and months follow the calendar; smaller units are exact durations.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch unit := matches[2]; unit {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	default:
		return now.Add(-time.Duration(value) * unitDurations[unit]), nil
	}
}

// ParseDuration accepts Go durations ("250ms", "2s") and human-readable
// ones ("3 minutes"). Zero and negative durations are rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return d, nil
	}

	matches := durationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	value, _ := strconv.Atoi(matches[1])
	d := time.Duration(value) * unitDurations[matches[2]]
	if d <= 0 {
		return 0, errors.New("duration must be positive")
	}
	return d, nil
}
