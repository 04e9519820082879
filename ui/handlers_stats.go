package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleStats returns the derived stats row
func (s *Server) handleStats(c *gin.Context) {
	us, err := s.focus.Stats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": us,
		"level": us.Level(),
	})
}

// handleTodaysStats returns today's session count and minutes
func (s *Server) handleTodaysStats(c *gin.Context) {
	day, err := s.focus.TodaysStats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// handleWeeklyProgress returns per-day aggregates for the trailing week
func (s *Server) handleWeeklyProgress(c *gin.Context) {
	week, err := s.focus.WeeklyProgress(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": week})
}

// handleRecomputeStats rebuilds the stats row from the session history
func (s *Server) handleRecomputeStats(c *gin.Context) {
	rebuilt, err := s.focus.RecomputeStats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": rebuilt})
}
