package ports

import (
	"context"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
	"tinysteps/domain/stats"
)

// Store is the single persistence interface for sessions, derived stats, and
// settings. Two interchangeable implementations exist: a local JSON-blob
// store for unauthenticated use and a PostgreSQL store for cloud sync. The
// backend is selected once at startup; callers never branch on it.
type Store interface {
	// AppendSession appends one completed session without touching stats.
	AppendSession(ctx context.Context, userID core.UserID, s session.CompletedSession) error

	// ListSessions returns the user's sessions ordered by recency (newest first).
	ListSessions(ctx context.Context, userID core.UserID) ([]session.CompletedSession, error)

	// Stats returns the user's stats row, creating the default row if absent
	// (idempotent upsert).
	Stats(ctx context.Context, userID core.UserID) (stats.UserStats, error)

	// UpdateStats replaces the user's stats row.
	UpdateStats(ctx context.Context, userID core.UserID, s stats.UserStats) error

	// RecordSession atomically appends the session and applies the derived
	// stats update. Either both happen or neither; no caller ever observes a
	// stored session without its stats update or vice versa.
	RecordSession(ctx context.Context, userID core.UserID, s session.CompletedSession) (stats.UserStats, error)

	// Settings returns the user's settings, creating defaults if absent.
	Settings(ctx context.Context, userID core.UserID) (stats.Settings, error)

	// SaveSettings replaces the user's settings.
	SaveSettings(ctx context.Context, userID core.UserID, s stats.Settings) error
}
