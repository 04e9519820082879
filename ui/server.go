package ui

import (
	"log"
	"net/http"

	"tinysteps/app"
	"tinysteps/domain/core"
	"tinysteps/internal/config"
	"tinysteps/internal/container"
	"tinysteps/internal/errors"
	"tinysteps/ports"

	"github.com/gin-gonic/gin"
)

// defaultUserID is the single-user identity for local/offline deployments.
// Authenticated deployments pass the real user ID in the X-User-ID header.
const defaultUserID = core.UserID("local")

// Server is the main JSON API server
type Server struct {
	router *gin.Engine

	focus      *app.FocusService
	suggester  ports.TaskSuggester
	breaker    ports.TaskBreaker
	focusCoach ports.FocusCoach
}

// NewServer creates the API server
func NewServer(cfg config.ServerConfig) *Server {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	return &Server{router: router}
}

// Initialize wires the server to the container's services and registers routes
func (s *Server) Initialize(c *container.Container) error {
	if c.FocusService == nil {
		return errors.InternalError("container not initialized")
	}

	s.focus = c.FocusService
	s.suggester = c.Suggester
	s.breaker = c.Breaker
	s.focusCoach = c.FocusCoach

	s.registerRoutes()
	return nil
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/sessions", s.handleRecordSession)
		api.GET("/sessions", s.handleListSessions)

		api.GET("/stats", s.handleStats)
		api.GET("/stats/today", s.handleTodaysStats)
		api.GET("/stats/weekly", s.handleWeeklyProgress)
		api.POST("/stats/recompute", s.handleRecomputeStats)

		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handleUpdateSettings)

		api.POST("/ai/suggestions", s.handleSuggestions)
		api.POST("/ai/breakdown", s.handleBreakdown)
		api.POST("/ai/coach", s.handleCoach)

		api.GET("/reports/weekly", s.handleWeeklyReport)
	}
}

// Router exposes the underlying handler, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server on the given address
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}

// userID resolves the request's user identity
func userID(c *gin.Context) core.UserID {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return core.UserID(id)
	}
	return defaultUserID
}

// respondError maps application error codes onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
