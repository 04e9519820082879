package container

import (
	"context"
	"fmt"
	"log"

	"tinysteps/adapters/localstore"
	"tinysteps/adapters/postgres"
	"tinysteps/ai"
	"tinysteps/app"
	"tinysteps/internal/config"
	"tinysteps/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Persistence
	Store ports.Store

	// Application services
	FocusService *app.FocusService

	// AI services
	Limiter    *ai.Limiter
	Suggester  ports.TaskSuggester
	Breaker    ports.TaskBreaker
	FocusCoach ports.FocusCoach
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{Config: cfg}, nil
}

// InitWithDatabase wires the Postgres-backed store
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.Store = postgres.NewStore(db)
	c.initServices()

	log.Printf("Container initialized with Postgres store")
	return nil
}

// InitWithLocalStore wires the file-backed store for offline use
func (c *Container) InitWithLocalStore() error {
	store, err := localstore.NewStore(c.Config.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize local store: %w", err)
	}

	c.Store = store
	c.initServices()

	log.Printf("Container initialized with local store at %s", c.Config.Storage.DataDir)
	return nil
}

func (c *Container) initServices() {
	c.FocusService = app.NewFocusService(c.Store)

	pm := ai.NewPromptManager(c.Config.AI.PromptsDir)
	c.Limiter = ai.NewLimiter(c.Config.AI.MaxInFlight)
	c.Suggester = ai.NewSuggestionService(ai.NewStructuredClient[ports.SuggestionSet](c.Config.AI, pm), c.Limiter)
	c.Breaker = ai.NewBreakdownService(ai.NewStructuredClient[ports.Breakdown](c.Config.AI, pm), c.Limiter)
	c.FocusCoach = ai.NewCoachService(ai.NewStructuredClient[struct{}](c.Config.AI, pm), c.Limiter)

	if c.Config.AI.OpenAIKey == "" {
		log.Printf("No OpenAI API key configured, AI services run in fallback mode")
	}
}

// Shutdown releases container resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
