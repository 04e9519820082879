package ai

import (
	"context"
	"log"
	"strconv"

	"tinysteps/ports"
)

// CoachService produces short coaching messages around sessions. Like the
// other AI services it degrades to canned text instead of failing.
type CoachService struct {
	client  *StructuredClient[struct{}]
	limiter *Limiter
	enabled bool
}

// NewCoachService creates a coach service
func NewCoachService(client *StructuredClient[struct{}], limiter *Limiter) *CoachService {
	return &CoachService{
		client:  client,
		limiter: limiter,
		enabled: client.OpenAIClient.APIKey != "",
	}
}

// Coach returns a coaching message for the given moment
func (s *CoachService) Coach(ctx context.Context, req ports.CoachRequest) (string, error) {
	promptName, replacements := coachPrompt(req)

	if !s.enabled {
		return FallbackCoaching(req.Type), nil
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.limiter.Release()

	message, err := s.client.GetTextResponse(ctx, promptName, replacements)
	if err != nil {
		log.Printf("[CoachService] Falling back to canned coaching: %v", err)
		return FallbackCoaching(req.Type), nil
	}
	if message == "" {
		return FallbackCoaching(req.Type), nil
	}

	return message, nil
}

func coachPrompt(req ports.CoachRequest) (string, map[string]string) {
	task := req.TaskName
	if task == "" {
		task = "Focus work"
	}
	minutes := req.DurationMinutes
	if minutes <= 0 {
		minutes = 25
	}
	quality := "Not rated"
	if req.QualityRating != nil {
		quality = strconv.Itoa(*req.QualityRating)
	}

	base := map[string]string{
		"TASK":             task,
		"DURATION_MINUTES": strconv.Itoa(minutes),
		"QUALITY":          quality,
		"CURRENT_STREAK":   strconv.Itoa(req.Stats.CurrentStreak),
		"TOTAL_SESSIONS":   strconv.Itoa(req.Stats.TotalSessions),
		"LEVEL":            strconv.Itoa(req.Stats.Level()),
		"WEEKLY_SESSIONS":  strconv.Itoa(req.WeeklySessions),
		"WEEKLY_MINUTES":   strconv.Itoa(req.WeeklyMinutes),
	}

	switch req.Type {
	case ports.CoachPreSession:
		return "coach_pre_session", base
	case ports.CoachPostSession:
		return "coach_post_session", base
	case ports.CoachWeeklyReview:
		return "coach_weekly_review", base
	default:
		return "coach_encouragement", base
	}
}

// FallbackCoaching is the canned message served when the LLM is unavailable.
func FallbackCoaching(t ports.CoachMessageType) string {
	switch t {
	case ports.CoachPreSession:
		return "You've set aside this time on purpose, and that already counts. Silence what you can, take one breath, and start with the smallest piece."
	case ports.CoachPostSession:
		return "Session done. Every completed interval strengthens the habit, whatever the session felt like from the inside."
	case ports.CoachWeeklyReview:
		return "Another week of showing up. Look at the days you practiced rather than the days you missed, and pick one small improvement for next week."
	default:
		return "Progress comes from showing up, not from perfect sessions. One more short interval today keeps the habit alive."
	}
}
