package stats

// Achievement is a one-time badge unlocked when a stat crosses its threshold.
// The catalog is the single source of truth for every backend; thresholds are
// never duplicated elsewhere.
type Achievement struct {
	ID      string
	Name    string
	Unlocks func(UserStats) bool
}

// Catalog lists every achievement in unlock-check order. Predicates are
// evaluated against the already-updated stats, once per ingested session;
// an already-unlocked badge is never re-added.
var Catalog = []Achievement{
	{
		ID:      "first-streak",
		Name:    "First Streak",
		Unlocks: func(s UserStats) bool { return s.CurrentStreak == 3 },
	},
	{
		ID:      "week-warrior",
		Name:    "Week Warrior",
		Unlocks: func(s UserStats) bool { return s.CurrentStreak == 7 },
	},
	{
		ID:      "task-master",
		Name:    "Task Master",
		Unlocks: func(s UserStats) bool { return s.TotalSessions == 10 },
	},
	{
		ID:      "time-champion",
		Name:    "Time Champion",
		Unlocks: func(s UserStats) bool { return s.TotalFocusMinutes >= 180 },
	},
}

// applyAchievements appends every newly-unlocked badge to the stats. The set
// only grows: checking an already-unlocked achievement is a no-op.
func applyAchievements(s UserStats) UserStats {
	for _, a := range Catalog {
		if !s.HasAchievement(a.ID) && a.Unlocks(s) {
			s.Achievements = append(s.Achievements, a.ID)
		}
	}
	return s
}
