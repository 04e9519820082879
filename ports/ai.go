package ports

import (
	"context"

	"tinysteps/domain/stats"
)

// SuggestionRequest asks for task ideas matching the user's available time
// and energy. RecentTasks lets the model avoid repetition.
type SuggestionRequest struct {
	AvailableMinutes int      `json:"availableMinutes"`
	Mood             string   `json:"mood"`
	Context          string   `json:"context"`
	RecentTasks      []string `json:"recentTasks"`
}

// Suggestion is one proposed task.
type Suggestion struct {
	Title            string `json:"title"`
	Category         string `json:"category"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	EnergyLevel      string `json:"energyLevel"`
	Rationale        string `json:"rationale"`
}

// SuggestionSet is the suggestion endpoint payload.
type SuggestionSet struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// BreakdownRequest asks for a task to be split into micro-steps.
type BreakdownRequest struct {
	Task            string `json:"task"`
	DurationMinutes int    `json:"durationMinutes"`
	ContextString   string `json:"contextString"`
}

// BreakdownStep is one micro-step of a task breakdown.
type BreakdownStep struct {
	Text             string   `json:"text"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Tips             []string `json:"tips"`
}

// Breakdown is the breakdown endpoint payload.
type Breakdown struct {
	Steps        []BreakdownStep `json:"steps"`
	Strategy     string          `json:"strategy"`
	Tips         []string        `json:"tips"`
	TotalMinutes int             `json:"totalMinutes"`
}

// CoachMessageType selects the coaching prompt.
type CoachMessageType string

const (
	CoachPreSession    CoachMessageType = "pre-session"
	CoachPostSession   CoachMessageType = "post-session"
	CoachWeeklyReview  CoachMessageType = "weekly-review"
	CoachEncouragement CoachMessageType = "encouragement"
)

// CoachRequest asks for a short coaching message.
type CoachRequest struct {
	Type            CoachMessageType `json:"type"`
	TaskName        string           `json:"taskName"`
	DurationMinutes int              `json:"durationMinutes"`
	QualityRating   *int             `json:"qualityRating,omitempty"`
	WeeklySessions  int              `json:"weeklySessions"`
	WeeklyMinutes   int              `json:"weeklyMinutes"`
	Stats           stats.UserStats  `json:"stats"`
}

// TaskSuggester produces task suggestions. Implementations must return a
// deterministic fallback payload instead of an error when the upstream
// service misbehaves: the user always gets some suggestion.
type TaskSuggester interface {
	Suggest(ctx context.Context, req SuggestionRequest) (SuggestionSet, error)
}

// TaskBreaker splits a task into manageable steps, with the same
// fallback-over-failure contract as TaskSuggester.
type TaskBreaker interface {
	Break(ctx context.Context, req BreakdownRequest) (Breakdown, error)
}

// FocusCoach produces short coaching messages.
type FocusCoach interface {
	Coach(ctx context.Context, req CoachRequest) (string, error)
}
