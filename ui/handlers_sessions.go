package ui

import (
	"net/http"

	"tinysteps/domain/session"
	"tinysteps/internal/errors"

	"github.com/gin-gonic/gin"
)

type recordSessionRequest struct {
	TaskName        string `json:"taskName"`
	DurationMinutes int    `json:"durationMinutes"`
	QualityRating   *int   `json:"qualityRating"`
}

// handleRecordSession records one completed focus interval and returns it
// together with the updated stats
func (s *Server) handleRecordSession(c *gin.Context) {
	var req recordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	sess, updated, err := s.focus.RecordSession(c.Request.Context(), userID(c), req.TaskName, req.DurationMinutes, req.QualityRating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session": sess,
		"stats":   updated,
	})
}

// handleListSessions returns the session history, newest first
func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.focus.Sessions(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if sessions == nil {
		sessions = []session.CompletedSession{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
