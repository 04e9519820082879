package ai

import (
	"context"
	"log"
	"strconv"
	"strings"

	"tinysteps/ports"
)

// SuggestionService produces task suggestions via the LLM, with a canned
// fallback so the endpoint never fails outright.
type SuggestionService struct {
	client  *StructuredClient[ports.SuggestionSet]
	limiter *Limiter
	enabled bool
}

// NewSuggestionService creates a suggestion service. With no API key the
// service is fallback-only.
func NewSuggestionService(client *StructuredClient[ports.SuggestionSet], limiter *Limiter) *SuggestionService {
	return &SuggestionService{
		client:  client,
		limiter: limiter,
		enabled: client.OpenAIClient.APIKey != "",
	}
}

// Suggest returns task suggestions for the given context. Upstream failures
// and malformed payloads degrade to FallbackSuggestions.
func (s *SuggestionService) Suggest(ctx context.Context, req ports.SuggestionRequest) (ports.SuggestionSet, error) {
	if !s.enabled {
		return FallbackSuggestions(), nil
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return ports.SuggestionSet{}, err
	}
	defer s.limiter.Release()

	mood := req.Mood
	if mood == "" {
		mood = "neutral"
	}
	sessionContext := req.Context
	if sessionContext == "" {
		sessionContext = "General productivity session"
	}
	recentTasks := "None provided"
	if len(req.RecentTasks) > 0 {
		recentTasks = strings.Join(req.RecentTasks, ", ")
	}
	minutes := req.AvailableMinutes
	if minutes <= 0 {
		minutes = 25
	}

	result, err := s.client.GetJsonResponseFromPrompt(ctx, "task_suggestions", map[string]string{
		"AVAILABLE_MINUTES": strconv.Itoa(minutes),
		"MOOD":              mood,
		"CONTEXT":           sessionContext,
		"RECENT_TASKS":      recentTasks,
	})
	if err != nil {
		log.Printf("[SuggestionService] Falling back to canned suggestions: %v", err)
		return FallbackSuggestions(), nil
	}
	if len(result.Suggestions) == 0 {
		log.Printf("[SuggestionService] Empty suggestion payload, falling back")
		return FallbackSuggestions(), nil
	}

	return *result, nil
}

// FallbackSuggestions is the deterministic payload served when the LLM is
// unavailable or returns something unusable.
func FallbackSuggestions() ports.SuggestionSet {
	return ports.SuggestionSet{
		Suggestions: []ports.Suggestion{
			{
				Title:            "Organize your workspace",
				Category:         "organization",
				EstimatedMinutes: 15,
				EnergyLevel:      "low",
				Rationale:        "Creates a clear environment for better focus",
			},
			{
				Title:            "Write down 3 things you're grateful for",
				Category:         "self-care",
				EstimatedMinutes: 5,
				EnergyLevel:      "low",
				Rationale:        "Positive mindset boost with quick completion",
			},
			{
				Title:            "Read one article about something you're curious about",
				Category:         "learning",
				EstimatedMinutes: 20,
				EnergyLevel:      "medium",
				Rationale:        "Satisfies curiosity while building knowledge",
			},
		},
	}
}
