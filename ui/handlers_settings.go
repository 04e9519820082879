package ui

import (
	"net/http"

	"tinysteps/domain/stats"
	"tinysteps/internal/errors"

	"github.com/gin-gonic/gin"
)

// handleGetSettings returns the user's settings, defaults included
func (s *Server) handleGetSettings(c *gin.Context) {
	settings, err := s.focus.Settings(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// handleUpdateSettings applies a partial settings update
func (s *Server) handleUpdateSettings(c *gin.Context) {
	var patch stats.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, errors.InvalidInput("invalid request body"))
		return
	}

	updated, err := s.focus.UpdateSettings(c.Request.Context(), userID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
