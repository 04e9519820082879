package ui

import (
	"net/http"

	"tinysteps/internal/errors"
	"tinysteps/ports"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// handleSuggestions proxies the task suggestion service
func (s *Server) handleSuggestions(c *gin.Context) {
	var req ports.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	result, err := s.suggester.Suggest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleBreakdown proxies the task breakdown service
func (s *Server) handleBreakdown(c *gin.Context) {
	var req ports.BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	result, err := s.breaker.Break(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type coachRequest struct {
	Type            ports.CoachMessageType `json:"type"`
	TaskName        string                 `json:"taskName"`
	DurationMinutes int                    `json:"durationMinutes"`
	QualityRating   *int                   `json:"qualityRating"`
}

// handleCoach enriches the request with current stats and weekly numbers,
// then returns the coaching message as plain text and rendered HTML
func (s *Server) handleCoach(c *gin.Context) {
	var req coachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	uid := userID(c)
	us, err := s.focus.Stats(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	var weeklySessions, weeklyMinutes int
	if week, err := s.focus.WeeklyProgress(c.Request.Context(), uid); err == nil {
		for _, day := range week {
			weeklySessions += day.SessionCount
			weeklyMinutes += day.Minutes
		}
	}

	message, err := s.focusCoach.Coach(c.Request.Context(), ports.CoachRequest{
		Type:            req.Type,
		TaskName:        req.TaskName,
		DurationMinutes: req.DurationMinutes,
		QualityRating:   req.QualityRating,
		WeeklySessions:  weeklySessions,
		WeeklyMinutes:   weeklyMinutes,
		Stats:           us,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coaching":     message,
		"coachingHtml": string(markdown.ToHTML([]byte(message), nil, nil)),
	})
}
