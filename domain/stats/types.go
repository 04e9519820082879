package stats

import (
	"math"

	"tinysteps/domain/core"
)

// PointsPerMinute is the canonical scoring rate. Every completed session is
// worth round(durationMinutes * PointsPerMinute) points.
const PointsPerMinute = 1.5

// PointsPerLevel is how many points one display level spans.
const PointsPerLevel = 1000

// DefaultWeeklyGoal is the default weekly focus goal in points.
const DefaultWeeklyGoal = 1500

// UserStats is the derived aggregate for one user. All fields are owned by
// this package: they are recomputed deterministically from the ordered session
// list, or incrementally from the prior value and one new session. The two
// paths must agree.
type UserStats struct {
	TotalSessions      int         `json:"totalSessions" db:"total_sessions"`
	TotalFocusMinutes  int         `json:"totalFocusMinutes" db:"total_focus_minutes"`
	CurrentStreak      int         `json:"currentStreak" db:"current_streak"`
	LongestStreak      int         `json:"longestStreak" db:"longest_streak"`
	TotalPoints        int         `json:"totalPoints" db:"total_points"`
	WeeklyGoal         int         `json:"weeklyGoal" db:"weekly_goal"`
	Achievements       []string    `json:"achievements" db:"-"`
	LastCompletionDate core.DayKey `json:"lastCompletionDate,omitempty" db:"last_completion_date"`
}

// NewUserStats returns the zero-value stats row for a fresh user.
func NewUserStats() UserStats {
	return UserStats{
		WeeklyGoal:   DefaultWeeklyGoal,
		Achievements: []string{},
	}
}

// Level is the display level derived from total points. Not authoritative,
// never stored.
func (s UserStats) Level() int {
	return s.TotalPoints/PointsPerLevel + 1
}

// HasAchievement reports whether the badge is already unlocked.
func (s UserStats) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// PointsFor converts a session duration to its point value.
func PointsFor(durationMinutes int) int {
	return int(math.Round(float64(durationMinutes) * PointsPerMinute))
}

// Settings is the per-user key-value configuration. Created with defaults on
// first use, updated wholesale or by partial merge, never deleted.
type Settings struct {
	DefaultFocusTime int  `json:"defaultFocusTime" db:"default_focus_time"`
	DefaultBreakTime int  `json:"defaultBreakTime" db:"default_break_time"`
	SoundEnabled     bool `json:"soundEnabled" db:"sound_enabled"`
	VoiceEnabled     bool `json:"voiceEnabled" db:"voice_enabled"`
}

// DefaultSettings returns the first-use settings.
func DefaultSettings() Settings {
	return Settings{
		DefaultFocusTime: 25,
		DefaultBreakTime: 5,
		SoundEnabled:     true,
		VoiceEnabled:     true,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	DefaultFocusTime *int  `json:"defaultFocusTime,omitempty"`
	DefaultBreakTime *int  `json:"defaultBreakTime,omitempty"`
	SoundEnabled     *bool `json:"soundEnabled,omitempty"`
	VoiceEnabled     *bool `json:"voiceEnabled,omitempty"`
}

// Apply merges the patch into s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DefaultFocusTime != nil && *p.DefaultFocusTime > 0 {
		s.DefaultFocusTime = *p.DefaultFocusTime
	}
	if p.DefaultBreakTime != nil && *p.DefaultBreakTime > 0 {
		s.DefaultBreakTime = *p.DefaultBreakTime
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.VoiceEnabled != nil {
		s.VoiceEnabled = *p.VoiceEnabled
	}
	return s
}
