package domain

import "time"

const dayLayout = "2006-01-02"

// DateKey canonicalizes a timestamp to its UTC day string. All date
// matching (available_dates membership, capacity counting) goes through
// this so callers in different timezones compare the same day.
func DateKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseDateKey parses an available_dates entry. Entries are stored as
// plain day strings but older rows may carry full RFC 3339 timestamps.
func ParseDateKey(s string) (time.Time, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DayWindow returns the UTC midnight bounds [start, end) of t's day.
func DayWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
