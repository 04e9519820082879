package app

import (
	"context"
	"testing"
	"time"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
	"tinysteps/domain/stats"
	"tinysteps/internal/errors"
)

// fakeStore is an in-memory store with programmable transient failures
type fakeStore struct {
	sessions  []session.CompletedSession
	stats     stats.UserStats
	settings  stats.Settings
	failTimes int
	calls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{stats: stats.NewUserStats(), settings: stats.DefaultSettings()}
}

func (f *fakeStore) maybeFail() error {
	f.calls++
	if f.failTimes > 0 {
		f.failTimes--
		return errors.StorageError("simulated outage")
	}
	return nil
}

func (f *fakeStore) AppendSession(ctx context.Context, userID core.UserID, s session.CompletedSession) error {
	if err := f.maybeFail(); err != nil {
		return err
	}
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeStore) ListSessions(ctx context.Context, userID core.UserID) ([]session.CompletedSession, error) {
	out := make([]session.CompletedSession, len(f.sessions))
	copy(out, f.sessions)
	return out, nil
}

func (f *fakeStore) Stats(ctx context.Context, userID core.UserID) (stats.UserStats, error) {
	if err := f.maybeFail(); err != nil {
		return stats.UserStats{}, err
	}
	return f.stats, nil
}

func (f *fakeStore) UpdateStats(ctx context.Context, userID core.UserID, s stats.UserStats) error {
	f.stats = s
	return nil
}

func (f *fakeStore) RecordSession(ctx context.Context, userID core.UserID, s session.CompletedSession) (stats.UserStats, error) {
	if err := f.maybeFail(); err != nil {
		return stats.UserStats{}, err
	}
	f.sessions = append(f.sessions, s)
	f.stats = stats.UpdateForSession(f.stats, s)
	return f.stats, nil
}

func (f *fakeStore) Settings(ctx context.Context, userID core.UserID) (stats.Settings, error) {
	return f.settings, nil
}

func (f *fakeStore) SaveSettings(ctx context.Context, userID core.UserID, s stats.Settings) error {
	f.settings = s
	return nil
}

func newTestService(store *fakeStore) *FocusService {
	svc := NewFocusService(store)
	svc.backoff = time.Millisecond
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local) }
	return svc
}

const user = core.UserID("test-user")

func TestRecordSessionHappyPath(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	sess, us, err := svc.RecordSession(context.Background(), user, "Read a chapter", 25, nil)
	if err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
	if sess.TaskName != "Read a chapter" {
		t.Errorf("TaskName: got %q", sess.TaskName)
	}
	if us.TotalSessions != 1 || us.TotalPoints != 38 {
		t.Errorf("Stats: expected 1 session / 38 points, got %d / %d", us.TotalSessions, us.TotalPoints)
	}
}

func TestRecordSessionRejectsInvalidInput(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	if _, _, err := svc.RecordSession(context.Background(), user, "   ", 25, nil); err == nil {
		t.Fatal("Expected error for blank task name")
	}
	if _, _, err := svc.RecordSession(context.Background(), user, "Read", 0, nil); err == nil {
		t.Fatal("Expected error for zero duration")
	}
	if store.calls != 0 {
		t.Errorf("Validation failures must not reach the store, got %d calls", store.calls)
	}
}

func TestRecordSessionRetriesTransientFailures(t *testing.T) {
	store := newFakeStore()
	store.failTimes = 2
	svc := newTestService(store)

	_, us, err := svc.RecordSession(context.Background(), user, "Read", 25, nil)
	if err != nil {
		t.Fatalf("Expected retries to succeed, got %v", err)
	}
	if us.TotalSessions != 1 {
		t.Errorf("Expected recorded session after retries, got %d", us.TotalSessions)
	}
	if store.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", store.calls)
	}
}

func TestRecordSessionGivesUpAfterMaxAttempts(t *testing.T) {
	store := newFakeStore()
	store.failTimes = 10
	svc := newTestService(store)

	if _, _, err := svc.RecordSession(context.Background(), user, "Read", 25, nil); err == nil {
		t.Fatal("Expected failure after exhausting retries")
	}
	if store.calls != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", store.calls)
	}
}

func TestTodaysStatsAndWeeklyProgress(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, _, err := svc.RecordSession(ctx, user, "Read", 25, nil); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}
	if _, _, err := svc.RecordSession(ctx, user, "Write", 15, nil); err != nil {
		t.Fatalf("RecordSession failed: %v", err)
	}

	day, err := svc.TodaysStats(ctx, user)
	if err != nil {
		t.Fatalf("TodaysStats failed: %v", err)
	}
	if day.SessionsToday != 2 || day.MinutesToday != 40 {
		t.Errorf("Expected 2 sessions / 40 minutes today, got %d / %d", day.SessionsToday, day.MinutesToday)
	}

	week, err := svc.WeeklyProgress(ctx, user)
	if err != nil {
		t.Fatalf("WeeklyProgress failed: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("Expected 7 entries, got %d", len(week))
	}
	if week[6].SessionCount != 2 || week[6].Minutes != 40 {
		t.Errorf("Today's entry: expected 2 / 40, got %d / %d", week[6].SessionCount, week[6].Minutes)
	}
}

func TestRecomputeStatsMatchesIncremental(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	for _, task := range []string{"a", "b", "c"} {
		if _, _, err := svc.RecordSession(ctx, user, task, 25, nil); err != nil {
			t.Fatalf("RecordSession failed: %v", err)
		}
	}
	incremental := store.stats

	// Corrupt the stored row, then repair it
	store.stats.TotalPoints = 999999
	rebuilt, err := svc.RecomputeStats(ctx, user)
	if err != nil {
		t.Fatalf("RecomputeStats failed: %v", err)
	}

	if rebuilt.TotalPoints != incremental.TotalPoints || rebuilt.CurrentStreak != incremental.CurrentStreak {
		t.Errorf("Recompute diverged: incremental %+v, rebuilt %+v", incremental, rebuilt)
	}
	if store.stats.TotalPoints != rebuilt.TotalPoints {
		t.Error("Recomputed stats were not persisted")
	}
}

func TestUpdateSettingsMergesPatch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	focus := 45
	updated, err := svc.UpdateSettings(context.Background(), user, stats.SettingsPatch{DefaultFocusTime: &focus})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.DefaultFocusTime != 45 {
		t.Errorf("DefaultFocusTime: expected 45, got %d", updated.DefaultFocusTime)
	}
	if updated.DefaultBreakTime != stats.DefaultSettings().DefaultBreakTime {
		t.Error("Unpatched field changed")
	}
	if store.settings != updated {
		t.Error("Settings not persisted")
	}
}
