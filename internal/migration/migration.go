package migration

import (
	"context"

	"tinysteps/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createFocusSessionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create focus_sessions table")
	}

	if err := r.createUserStatsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create user_stats table")
	}

	if err := r.createUserSettingsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create user_settings table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createFocusSessionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS focus_sessions (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			task_name TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			completed_at TIMESTAMP WITH TIME ZONE NOT NULL,
			category TEXT,
			quality_rating INTEGER,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createUserStatsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT PRIMARY KEY,
			total_sessions INTEGER NOT NULL DEFAULT 0,
			total_focus_minutes INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			weekly_goal INTEGER NOT NULL DEFAULT 1500,
			achievements TEXT[] NOT NULL DEFAULT '{}',
			last_completion_date TEXT,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createUserSettingsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_settings (
			user_id TEXT PRIMARY KEY,
			default_focus_time INTEGER NOT NULL DEFAULT 25,
			default_break_time INTEGER NOT NULL DEFAULT 5,
			sound_enabled BOOLEAN NOT NULL DEFAULT true,
			voice_enabled BOOLEAN NOT NULL DEFAULT true,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_focus_sessions_user_completed
		ON focus_sessions (user_id, completed_at DESC)
	`)
	return err
}
