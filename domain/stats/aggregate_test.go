package stats

import (
	"testing"
	"time"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
)

// TestWeeklyProgressAlwaysSevenEntries tests the fixed window size
func TestWeeklyProgressAlwaysSevenEntries(t *testing.T) {
	now := anchor.AddDate(0, 0, 10)

	if got := WeeklyProgress(nil, now); len(got) != 7 {
		t.Fatalf("Expected 7 entries for empty history, got %d", len(got))
	}

	many := make([]session.CompletedSession, 0, 30)
	for day := 0; day < 30; day++ {
		many = append(many, sessionOn(t, day, 25))
	}
	if got := WeeklyProgress(many, now); len(got) != 7 {
		t.Fatalf("Expected 7 entries for long history, got %d", len(got))
	}
}

// TestWeeklyProgressChronological tests ordering and zero-filled days
func TestWeeklyProgressChronological(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local) // a Friday

	sessions := []session.CompletedSession{
		sessionOn(t, 14, 25), // 2024-03-15 (today)
		sessionOn(t, 14, 10),
		sessionOn(t, 12, 45), // 2024-03-13
		sessionOn(t, 0, 25),  // 2024-03-01, outside the window
	}

	week := WeeklyProgress(sessions, now)

	if week[0].Date != core.DayKey("2024-03-09") {
		t.Errorf("First entry: expected 2024-03-09, got %s", week[0].Date)
	}
	if week[6].Date != core.DayKey("2024-03-15") {
		t.Errorf("Last entry: expected 2024-03-15, got %s", week[6].Date)
	}
	if week[6].DayLabel != "Fri" {
		t.Errorf("Last entry label: expected Fri, got %s", week[6].DayLabel)
	}

	if week[6].SessionCount != 2 || week[6].Minutes != 35 {
		t.Errorf("Today: expected 2 sessions / 35 minutes, got %d / %d", week[6].SessionCount, week[6].Minutes)
	}
	if week[4].SessionCount != 1 || week[4].Minutes != 45 {
		t.Errorf("2024-03-13: expected 1 session / 45 minutes, got %d / %d", week[4].SessionCount, week[4].Minutes)
	}

	// Days with no sessions report zero, not absence
	for _, i := range []int{0, 1, 2, 3, 5} {
		if week[i].SessionCount != 0 || week[i].Minutes != 0 {
			t.Errorf("Entry %d (%s): expected zeroes, got %d / %d", i, week[i].Date, week[i].SessionCount, week[i].Minutes)
		}
	}
}

// TestTodaysStats tests the current-day filter
func TestTodaysStats(t *testing.T) {
	now := anchor.AddDate(0, 0, 5)
	sessions := []session.CompletedSession{
		sessionOn(t, 5, 25),
		sessionOn(t, 5, 15),
		sessionOn(t, 4, 60), // yesterday, excluded
	}

	got := TodaysStats(sessions, now)
	if got.SessionsToday != 2 {
		t.Errorf("SessionsToday: expected 2, got %d", got.SessionsToday)
	}
	if got.MinutesToday != 40 {
		t.Errorf("MinutesToday: expected 40, got %d", got.MinutesToday)
	}
}

// TestTodaysStatsEmpty tests the no-session case
func TestTodaysStatsEmpty(t *testing.T) {
	got := TodaysStats(nil, anchor)
	if got.SessionsToday != 0 || got.MinutesToday != 0 {
		t.Errorf("Expected zeroes, got %+v", got)
	}
}

// TestSettingsPatchApply tests partial settings merges
func TestSettingsPatchApply(t *testing.T) {
	base := DefaultSettings()

	focus := 45
	soundOff := false
	patched := SettingsPatch{DefaultFocusTime: &focus, SoundEnabled: &soundOff}.Apply(base)

	if patched.DefaultFocusTime != 45 {
		t.Errorf("DefaultFocusTime: expected 45, got %d", patched.DefaultFocusTime)
	}
	if patched.SoundEnabled {
		t.Error("Expected sound disabled")
	}
	if patched.DefaultBreakTime != base.DefaultBreakTime || patched.VoiceEnabled != base.VoiceEnabled {
		t.Error("Unpatched fields changed")
	}

	// Non-positive durations are ignored
	bad := -5
	patched = SettingsPatch{DefaultFocusTime: &bad}.Apply(base)
	if patched.DefaultFocusTime != base.DefaultFocusTime {
		t.Errorf("Non-positive focus time should be ignored, got %d", patched.DefaultFocusTime)
	}
}
