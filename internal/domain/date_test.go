package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-05-31", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 5, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected end of day %v, got %v", want, got)
	}

	got, err = ParseDate("2024-05-10T08:30:00+02:00", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2024, 5, 10, 6, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected RFC 3339 parse: %v", got)
	}

	for _, bad := range []string{"", "   ", "10/05/2024"} {
		if _, err := ParseDate(bad, false); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", bad, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var in struct {
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-06-20"}`), &in); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !in.Date.Time().Equal(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", in.Date.Time())
	}

	out, err := json.Marshal(in.Date)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `"2024-06-20T00:00:00Z"` {
		t.Fatalf("unexpected encoding: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"date":42}`), &in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for numeric date, got %v", err)
	}
}
