package postgres

import (
	"context"
	"database/sql"
	"time"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
	"tinysteps/domain/stats"
	"tinysteps/internal/errors"
	"tinysteps/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// StoreImpl implements ports.Store for PostgreSQL
type StoreImpl struct {
	db *sqlx.DB
}

// NewStore creates a new PostgreSQL store
func NewStore(db *sqlx.DB) ports.Store {
	return &StoreImpl{db: db}
}

// AppendSession inserts a completed session row
func (s *StoreImpl) AppendSession(ctx context.Context, userID core.UserID, sess session.CompletedSession) error {
	return s.insertSession(ctx, s.db, userID, sess)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *StoreImpl) insertSession(ctx context.Context, e execer, userID core.UserID, sess session.CompletedSession) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO focus_sessions (id, user_id, task_name, duration_minutes, completed_at, category, quality_rating)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
	`, string(sess.ID), string(userID), sess.TaskName, sess.DurationMinutes, sess.CompletedAt.Time(), sess.Category, sess.QualityRating)
	if err != nil {
		return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to insert focus session"))
	}
	return nil
}

// ListSessions returns the user's sessions, newest first
func (s *StoreImpl) ListSessions(ctx context.Context, userID core.UserID) ([]session.CompletedSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_name, duration_minutes, completed_at, COALESCE(category, ''), quality_rating
		FROM focus_sessions
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`, string(userID))
	if err != nil {
		return nil, errors.ExternalServiceError("postgres", err)
	}
	defer rows.Close()

	var sessions []session.CompletedSession
	for rows.Next() {
		var (
			sess        session.CompletedSession
			id          string
			completedAt time.Time
		)
		if err := rows.Scan(&id, &sess.TaskName, &sess.DurationMinutes, &completedAt, &sess.Category, &sess.QualityRating); err != nil {
			return nil, errors.Wrap(err, "failed to scan focus session")
		}
		sess.ID = core.SessionID(id)
		sess.CompletedAt = core.NewTimestamp(completedAt)
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Stats returns the user's stats row, inserting the default row when none
// exists yet. The insert-then-select pair makes first reads and concurrent
// first reads converge on the same row.
func (s *StoreImpl) Stats(ctx context.Context, userID core.UserID) (stats.UserStats, error) {
	if err := s.ensureStatsRow(ctx, s.db, userID); err != nil {
		return stats.UserStats{}, err
	}
	return s.selectStats(ctx, s.db, userID, false)
}

func (s *StoreImpl) ensureStatsRow(ctx context.Context, e execer, userID core.UserID) error {
	def := stats.NewUserStats()
	_, err := e.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, total_sessions, total_focus_minutes, current_streak, longest_streak, total_points, weekly_goal, achievements, last_completion_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL)
		ON CONFLICT (user_id) DO NOTHING
	`, string(userID), def.TotalSessions, def.TotalFocusMinutes, def.CurrentStreak, def.LongestStreak, def.TotalPoints, def.WeeklyGoal, pq.Array(def.Achievements))
	if err != nil {
		return errors.ExternalServiceError("postgres", err)
	}
	return nil
}

func (s *StoreImpl) selectStats(ctx context.Context, q queryRower, userID core.UserID, forUpdate bool) (stats.UserStats, error) {
	query := `
		SELECT total_sessions, total_focus_minutes, current_streak, longest_streak, total_points, weekly_goal, achievements, COALESCE(last_completion_date, '')
		FROM user_stats
		WHERE user_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var (
		us           stats.UserStats
		achievements pq.StringArray
		lastDay      string
	)
	err := q.QueryRowContext(ctx, query, string(userID)).Scan(
		&us.TotalSessions,
		&us.TotalFocusMinutes,
		&us.CurrentStreak,
		&us.LongestStreak,
		&us.TotalPoints,
		&us.WeeklyGoal,
		&achievements,
		&lastDay,
	)
	if err != nil {
		return stats.UserStats{}, errors.ExternalServiceError("postgres", err)
	}

	us.Achievements = []string(achievements)
	if us.Achievements == nil {
		us.Achievements = []string{}
	}
	us.LastCompletionDate = core.DayKey(lastDay)
	return us, nil
}

// UpdateStats replaces the user's stats row
func (s *StoreImpl) UpdateStats(ctx context.Context, userID core.UserID, us stats.UserStats) error {
	return s.upsertStats(ctx, s.db, userID, us)
}

func (s *StoreImpl) upsertStats(ctx context.Context, e execer, userID core.UserID, us stats.UserStats) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, total_sessions, total_focus_minutes, current_streak, longest_streak, total_points, weekly_goal, achievements, last_completion_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			total_sessions = EXCLUDED.total_sessions,
			total_focus_minutes = EXCLUDED.total_focus_minutes,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			total_points = EXCLUDED.total_points,
			weekly_goal = EXCLUDED.weekly_goal,
			achievements = EXCLUDED.achievements,
			last_completion_date = EXCLUDED.last_completion_date,
			updated_at = NOW()
	`, string(userID), us.TotalSessions, us.TotalFocusMinutes, us.CurrentStreak, us.LongestStreak, us.TotalPoints, us.WeeklyGoal, pq.Array(us.Achievements), string(us.LastCompletionDate))
	if err != nil {
		return errors.ExternalServiceError("postgres", err)
	}
	return nil
}

// RecordSession appends the session and applies the stats update in one
// transaction. The stats row is locked for the duration so two concurrent
// completions serialize instead of both reading the same prior streak.
func (s *StoreImpl) RecordSession(ctx context.Context, userID core.UserID, sess session.CompletedSession) (stats.UserStats, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats.UserStats{}, errors.ExternalServiceError("postgres", err)
	}
	defer tx.Rollback()

	if err := s.ensureStatsRow(ctx, tx, userID); err != nil {
		return stats.UserStats{}, err
	}

	prior, err := s.selectStats(ctx, tx, userID, true)
	if err != nil {
		return stats.UserStats{}, err
	}

	if err := s.insertSession(ctx, tx, userID, sess); err != nil {
		return stats.UserStats{}, err
	}

	updated := stats.UpdateForSession(prior, sess)
	if err := s.upsertStats(ctx, tx, userID, updated); err != nil {
		return stats.UserStats{}, err
	}

	if err := tx.Commit(); err != nil {
		return stats.UserStats{}, errors.ExternalServiceError("postgres", err)
	}

	return updated, nil
}

// Settings returns the user's settings, inserting defaults when absent
func (s *StoreImpl) Settings(ctx context.Context, userID core.UserID) (stats.Settings, error) {
	def := stats.DefaultSettings()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, default_focus_time, default_break_time, sound_enabled, voice_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`, string(userID), def.DefaultFocusTime, def.DefaultBreakTime, def.SoundEnabled, def.VoiceEnabled)
	if err != nil {
		return stats.Settings{}, errors.ExternalServiceError("postgres", err)
	}

	var settings stats.Settings
	err = s.db.QueryRowContext(ctx, `
		SELECT default_focus_time, default_break_time, sound_enabled, voice_enabled
		FROM user_settings
		WHERE user_id = $1
	`, string(userID)).Scan(&settings.DefaultFocusTime, &settings.DefaultBreakTime, &settings.SoundEnabled, &settings.VoiceEnabled)
	if err != nil {
		return stats.Settings{}, errors.ExternalServiceError("postgres", err)
	}

	return settings, nil
}

// SaveSettings replaces the user's settings
func (s *StoreImpl) SaveSettings(ctx context.Context, userID core.UserID, settings stats.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, default_focus_time, default_break_time, sound_enabled, voice_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			default_focus_time = EXCLUDED.default_focus_time,
			default_break_time = EXCLUDED.default_break_time,
			sound_enabled = EXCLUDED.sound_enabled,
			voice_enabled = EXCLUDED.voice_enabled,
			updated_at = NOW()
	`, string(userID), settings.DefaultFocusTime, settings.DefaultBreakTime, settings.SoundEnabled, settings.VoiceEnabled)
	if err != nil {
		return errors.ExternalServiceError("postgres", err)
	}
	return nil
}
