package core

import (
	"testing"
	"time"
)

// TestDayOf tests calendar day key derivation
func TestDayOf(t *testing.T) {
	loc := time.Local
	early := time.Date(2024, 3, 15, 0, 5, 0, 0, loc)
	late := time.Date(2024, 3, 15, 23, 55, 0, 0, loc)

	if DayOf(early) != DayOf(late) {
		t.Errorf("Expected same day key for %v and %v", early, late)
	}
	if DayOf(early) != DayKey("2024-03-15") {
		t.Errorf("Expected 2024-03-15, got %s", DayOf(early))
	}
}

// TestDayKeyPrev tests previous-day arithmetic including month and year boundaries
func TestDayKeyPrev(t *testing.T) {
	tests := []struct {
		day      DayKey
		expected DayKey
	}{
		{"2024-03-15", "2024-03-14"},
		{"2024-03-01", "2024-02-29"}, // leap year
		{"2023-03-01", "2023-02-28"},
		{"2024-01-01", "2023-12-31"},
	}

	for _, test := range tests {
		if got := test.day.Prev(); got != test.expected {
			t.Errorf("Prev(%s): expected %s, got %s", test.day, test.expected, got)
		}
	}

	if !DayKey("").Prev().IsZero() {
		t.Error("Prev of unset key should stay unset")
	}
	if !DayKey("garbage").Prev().IsZero() {
		t.Error("Prev of malformed key should be unset")
	}
}

// TestDayKeyWeekday tests weekday labels
func TestDayKeyWeekday(t *testing.T) {
	// 2024-03-15 was a Friday
	if got := DayKey("2024-03-15").Weekday(); got != "Fri" {
		t.Errorf("Expected Fri, got %s", got)
	}
	if got := DayKey("").Weekday(); got != "" {
		t.Errorf("Expected empty label for unset key, got %s", got)
	}
}

// TestTimestampJSONRoundTrip tests timestamp JSON marshaling
func TestTimestampJSONRoundTrip(t *testing.T) {
	now := NewTimestamp(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC))

	data, err := now.MarshalJSON()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Timestamp
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !back.Time().Equal(now.Time()) {
		t.Errorf("Round trip mismatch: %v != %v", back.Time(), now.Time())
	}
}
