package ai

import (
	"context"
	"log"
	"strconv"

	"tinysteps/internal/errors"
	"tinysteps/ports"
)

// BreakdownService splits a task into micro-steps via the LLM, with a
// single-step fallback when the upstream call fails.
type BreakdownService struct {
	client  *StructuredClient[ports.Breakdown]
	limiter *Limiter
	enabled bool
}

// NewBreakdownService creates a breakdown service
func NewBreakdownService(client *StructuredClient[ports.Breakdown], limiter *Limiter) *BreakdownService {
	return &BreakdownService{
		client:  client,
		limiter: limiter,
		enabled: client.OpenAIClient.APIKey != "",
	}
}

// Break splits the task into steps. A missing task is the one hard error;
// everything upstream degrades to FallbackBreakdown.
func (s *BreakdownService) Break(ctx context.Context, req ports.BreakdownRequest) (ports.Breakdown, error) {
	if req.Task == "" {
		return ports.Breakdown{}, errors.InvalidInput("task is required")
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 25
	}

	if !s.enabled {
		return FallbackBreakdown(req.Task, req.DurationMinutes), nil
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return ports.Breakdown{}, err
	}
	defer s.limiter.Release()

	sessionContext := req.ContextString
	if sessionContext == "" {
		sessionContext = "No additional context provided"
	}

	result, err := s.client.GetJsonResponseFromPrompt(ctx, "task_breakdown", map[string]string{
		"TASK":             req.Task,
		"DURATION_MINUTES": strconv.Itoa(req.DurationMinutes),
		"CONTEXT":          sessionContext,
	})
	if err != nil {
		log.Printf("[BreakdownService] Falling back to single-step breakdown: %v", err)
		return FallbackBreakdown(req.Task, req.DurationMinutes), nil
	}
	if len(result.Steps) == 0 {
		log.Printf("[BreakdownService] Empty breakdown payload, falling back")
		return FallbackBreakdown(req.Task, req.DurationMinutes), nil
	}

	return *result, nil
}

// FallbackBreakdown treats the whole task as one step with generic focus tips.
func FallbackBreakdown(task string, durationMinutes int) ports.Breakdown {
	return ports.Breakdown{
		Steps: []ports.BreakdownStep{
			{
				Text:             task,
				EstimatedMinutes: durationMinutes,
				Tips:             []string{"Take breaks every 25 minutes", "Remove distractions"},
			},
		},
		Strategy:     "Focus on one step at a time and celebrate small wins.",
		Tips:         []string{"Use a timer", "Break tasks into smaller pieces", "Reward yourself"},
		TotalMinutes: durationMinutes,
	}
}
