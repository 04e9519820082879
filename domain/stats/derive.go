package stats

import (
	"sort"

	"tinysteps/domain/session"
)

// UpdateForSession derives the next UserStats from the prior value and one
// newly ingested session. The returned value is complete; callers must apply
// it atomically so no observer sees totals updated without the streak.
//
// Streak rule: multiple sessions on the same calendar day never inflate the
// streak; a session on the day after the last completion extends it by one;
// any gap resets it to one.
func UpdateForSession(prior UserStats, s session.CompletedSession) UserStats {
	next := prior
	next.Achievements = append([]string(nil), prior.Achievements...)

	next.TotalSessions++
	next.TotalFocusMinutes += s.DurationMinutes
	next.TotalPoints += PointsFor(s.DurationMinutes)

	today := s.Day()
	switch {
	case prior.LastCompletionDate.IsZero():
		next.CurrentStreak = 1
	case prior.LastCompletionDate == today:
		// Already completed today, keep streak
	case prior.LastCompletionDate == today.Prev():
		next.CurrentStreak++
	default:
		next.CurrentStreak = 1
	}
	next.LastCompletionDate = today

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	return applyAchievements(next)
}

// Recompute derives UserStats from scratch by folding UpdateForSession over
// the sessions in completion order. Given the same sessions, the result is
// identical to applying the incremental path as each session arrived.
func Recompute(sessions []session.CompletedSession) UserStats {
	ordered := append([]session.CompletedSession(nil), sessions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
	})

	out := NewUserStats()
	for _, s := range ordered {
		out = UpdateForSession(out, s)
	}
	return out
}
