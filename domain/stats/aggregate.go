package stats

import (
	"time"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
)

// DayStats summarizes the current calendar day.
type DayStats struct {
	SessionsToday int `json:"sessionsToday"`
	MinutesToday  int `json:"minutesToday"`
}

// WeekDay is one entry of the weekly progress view.
type WeekDay struct {
	DayLabel     string      `json:"dayLabel"`
	Date         core.DayKey `json:"date"`
	SessionCount int         `json:"sessionCount"`
	Minutes      int         `json:"minutes"`
}

// TodaysStats counts sessions completed on the calendar day containing now.
// Pure and read-only; it never mutates UserStats.
func TodaysStats(sessions []session.CompletedSession, now time.Time) DayStats {
	today := core.DayOf(now)

	var out DayStats
	for _, s := range sessions {
		if s.Day() == today {
			out.SessionsToday++
			out.MinutesToday += s.DurationMinutes
		}
	}
	return out
}

// WeeklyProgress returns exactly 7 entries, one per day from six days ago
// through today inclusive, in chronological order. Days with no sessions
// report zero, not absence.
func WeeklyProgress(sessions []session.CompletedSession, now time.Time) []WeekDay {
	byDay := make(map[core.DayKey]*WeekDay, 7)
	week := make([]WeekDay, 7)

	for i := 6; i >= 0; i-- {
		date := core.DayOf(now.AddDate(0, 0, -i))
		idx := 6 - i
		week[idx] = WeekDay{
			DayLabel: date.Weekday(),
			Date:     date,
		}
		byDay[date] = &week[idx]
	}

	for _, s := range sessions {
		if day, ok := byDay[s.Day()]; ok {
			day.SessionCount++
			day.Minutes += s.DurationMinutes
		}
	}

	return week
}
