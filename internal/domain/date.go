package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC 3339. With endOfDay set, a date-only
// value is moved to the last nanosecond of that day so ranges stay inclusive.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, InvalidInput("date is required")
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, InvalidInput("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t.UTC(), nil
}

// Date is a request timestamp that also accepts a bare calendar date
type Date time.Time

// Time returns d as a time.Time
func (d Date) Time() time.Time { return time.Time(d) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return InvalidInput("date must be a string")
	}
	t, err := ParseDate(s, false)
	if err != nil {
		return err
	}
	*d = Date(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time().Format(time.RFC3339))
}

// DateOf wraps t as a Date
func DateOf(t time.Time) Date { return Date(t) }

// FormatDay renders t as YYYY-MM-DD
func FormatDay(t time.Time) string { return t.Format(dateOnly) }
