package session

import (
	"fmt"
	"strings"
	"time"

	"tinysteps/domain/core"
)

// Duration presets offered by the client, in minutes. Free-form durations are
// accepted as long as they are positive; the presets are what the UI shows.
var DurationPresets = []int{10, 15, 25, 45, 60}

// CompletedSession is one finished (not skipped) focus interval. It is created
// exactly once when a countdown reaches zero, and never mutated afterwards.
type CompletedSession struct {
	ID              core.SessionID `json:"id" db:"id"`
	TaskName        string         `json:"taskName" db:"task_name"`
	DurationMinutes int            `json:"durationMinutes" db:"duration_minutes"`
	CompletedAt     core.Timestamp `json:"completedAt" db:"completed_at"`
	Category        string         `json:"category,omitempty" db:"category"`
	QualityRating   *int           `json:"qualityRating,omitempty" db:"quality_rating"`
}

// New builds a CompletedSession with a fresh ID and the given completion time.
// Input is validated before any state exists, so no partial record can leak out.
func New(taskName string, durationMinutes int, quality *int, completedAt time.Time) (CompletedSession, error) {
	taskName = strings.TrimSpace(taskName)
	if taskName == "" {
		return CompletedSession{}, fmt.Errorf("task name cannot be empty")
	}
	if durationMinutes <= 0 {
		return CompletedSession{}, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}
	if quality != nil && (*quality < 0 || *quality > 100) {
		return CompletedSession{}, fmt.Errorf("quality rating must be between 0 and 100, got %d", *quality)
	}

	return CompletedSession{
		ID:              core.SessionID(core.NewID()),
		TaskName:        taskName,
		DurationMinutes: durationMinutes,
		CompletedAt:     core.NewTimestamp(completedAt),
		QualityRating:   quality,
	}, nil
}

// Day returns the calendar day the session was completed on.
func (s CompletedSession) Day() core.DayKey {
	return core.DayOf(s.CompletedAt.Time())
}
