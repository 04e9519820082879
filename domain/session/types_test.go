package session

import (
	"testing"
	"time"
)

// TestNewValidation tests session input constraints
func TestNewValidation(t *testing.T) {
	now := time.Now()
	good := 80

	tests := []struct {
		name     string
		task     string
		minutes  int
		quality  *int
		hasError bool
	}{
		{"valid", "Read", 25, nil, false},
		{"valid with quality", "Read", 25, &good, false},
		{"empty task", "", 25, nil, true},
		{"whitespace task", "   ", 25, nil, true},
		{"zero duration", "Read", 0, nil, true},
		{"negative duration", "Read", -5, nil, true},
	}

	for _, test := range tests {
		_, err := New(test.task, test.minutes, test.quality, now)
		if test.hasError && err == nil {
			t.Errorf("%s: expected error, got none", test.name)
		}
		if !test.hasError && err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		}
	}
}

// TestNewQualityBounds tests the 0-100 quality rating range
func TestNewQualityBounds(t *testing.T) {
	now := time.Now()
	for _, q := range []int{-1, 101} {
		rating := q
		if _, err := New("Read", 25, &rating, now); err == nil {
			t.Errorf("Expected error for quality %d", q)
		}
	}
	for _, q := range []int{0, 100} {
		rating := q
		if _, err := New("Read", 25, &rating, now); err != nil {
			t.Errorf("Unexpected error for quality %d: %v", q, err)
		}
	}
}

// TestNewTrimsTaskName tests that task names are trimmed
func TestNewTrimsTaskName(t *testing.T) {
	s, err := New("  Read  ", 25, nil, time.Now())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.TaskName != "Read" {
		t.Errorf("Expected trimmed task name, got %q", s.TaskName)
	}
	if s.ID.String() == "" {
		t.Error("Expected a generated session ID")
	}
}

// TestDay tests calendar day derivation
func TestDay(t *testing.T) {
	at := time.Date(2024, 3, 15, 23, 55, 0, 0, time.Local)
	s, err := New("Read", 25, nil, at)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Day().String() != "2024-03-15" {
		t.Errorf("Expected 2024-03-15, got %s", s.Day())
	}
}
