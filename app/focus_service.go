package app

import (
	"context"
	"log"
	"time"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
	"tinysteps/domain/stats"
	"tinysteps/internal/errors"
	"tinysteps/ports"
)

// FocusService coordinates session recording and stat queries on top of the
// store. It owns input validation and transient-failure retries; the stats
// arithmetic itself lives in the domain.
type FocusService struct {
	store ports.Store

	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

// NewFocusService creates a focus service with default retry behavior
func NewFocusService(store ports.Store) *FocusService {
	return &FocusService{
		store:       store,
		maxAttempts: 3,
		backoff:     100 * time.Millisecond,
		now:         time.Now,
	}
}

// withRetry runs op, retrying transient failures with doubling backoff.
// Validation and input errors are never retried.
func (s *FocusService) withRetry(ctx context.Context, name string, op func() error) error {
	delay := s.backoff
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.IsTransient(err) || attempt == s.maxAttempts {
			return err
		}

		log.Printf("[FocusService] %s attempt %d/%d failed, retrying in %v: %v", name, attempt, s.maxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// RecordSession validates and records one completed focus interval and
// returns the updated stats.
func (s *FocusService) RecordSession(ctx context.Context, userID core.UserID, taskName string, durationMinutes int, quality *int) (session.CompletedSession, stats.UserStats, error) {
	sess, err := session.New(taskName, durationMinutes, quality, s.now())
	if err != nil {
		return session.CompletedSession{}, stats.UserStats{}, errors.WithCode(errors.CodeValidationError, err)
	}

	var updated stats.UserStats
	err = s.withRetry(ctx, "RecordSession", func() error {
		var opErr error
		updated, opErr = s.store.RecordSession(ctx, userID, sess)
		return opErr
	})
	if err != nil {
		return session.CompletedSession{}, stats.UserStats{}, err
	}

	log.Printf("[FocusService] Recorded session task=%q minutes=%d streak=%d points=%d",
		sess.TaskName, sess.DurationMinutes, updated.CurrentStreak, updated.TotalPoints)
	return sess, updated, nil
}

// Sessions returns the user's session history, newest first
func (s *FocusService) Sessions(ctx context.Context, userID core.UserID) ([]session.CompletedSession, error) {
	return s.store.ListSessions(ctx, userID)
}

// Stats returns the user's derived stats
func (s *FocusService) Stats(ctx context.Context, userID core.UserID) (stats.UserStats, error) {
	var us stats.UserStats
	err := s.withRetry(ctx, "Stats", func() error {
		var opErr error
		us, opErr = s.store.Stats(ctx, userID)
		return opErr
	})
	return us, err
}

// TodaysStats returns today's session count and minutes
func (s *FocusService) TodaysStats(ctx context.Context, userID core.UserID) (stats.DayStats, error) {
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return stats.DayStats{}, err
	}
	return stats.TodaysStats(sessions, s.now()), nil
}

// WeeklyProgress returns per-day aggregates for the trailing seven days
func (s *FocusService) WeeklyProgress(ctx context.Context, userID core.UserID) ([]stats.WeekDay, error) {
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.WeeklyProgress(sessions, s.now()), nil
}

// RecomputeStats rebuilds the stats row from the full session history and
// persists it. This is the repair path for a stats row that drifted from the
// history it was derived from.
func (s *FocusService) RecomputeStats(ctx context.Context, userID core.UserID) (stats.UserStats, error) {
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return stats.UserStats{}, err
	}

	rebuilt := stats.Recompute(sessions)
	if err := s.store.UpdateStats(ctx, userID, rebuilt); err != nil {
		return stats.UserStats{}, err
	}

	log.Printf("[FocusService] Recomputed stats from %d sessions: streak=%d points=%d",
		len(sessions), rebuilt.CurrentStreak, rebuilt.TotalPoints)
	return rebuilt, nil
}

// Settings returns the user's settings
func (s *FocusService) Settings(ctx context.Context, userID core.UserID) (stats.Settings, error) {
	return s.store.Settings(ctx, userID)
}

// UpdateSettings applies a partial settings update and returns the result
func (s *FocusService) UpdateSettings(ctx context.Context, userID core.UserID, patch stats.SettingsPatch) (stats.Settings, error) {
	current, err := s.store.Settings(ctx, userID)
	if err != nil {
		return stats.Settings{}, err
	}

	updated := patch.Apply(current)
	if err := s.store.SaveSettings(ctx, userID, updated); err != nil {
		return stats.Settings{}, err
	}
	return updated, nil
}
