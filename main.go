package main

import (
	"context"
	"log"
	"net/http"

	"tinysteps/internal/config"
	"tinysteps/internal/container"
	"tinysteps/internal/errors"
	"tinysteps/internal/migration"
	"tinysteps/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// initDatabase connects to PostgreSQL and brings the schema up to date
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Storage.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Select the persistence backend: Postgres when DATABASE_URL is set,
	// local JSON files otherwise
	var ready ui.ReadyCheck
	if appConfig.UseLocalStore() {
		if err := appContainer.InitWithLocalStore(); err != nil {
			log.Fatalf("Failed to initialize local store: %v", err)
		}
	} else {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
		ready = db.Ping
	}

	server := ui.NewServer(appConfig.Server)
	if err := server.Initialize(appContainer); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	opsServer := &http.Server{
		Addr:    ":" + appConfig.Server.OpsPort,
		Handler: ui.NewOpsRouter(ready),
	}

	var g errgroup.Group
	g.Go(func() error {
		log.Printf("Starting tinysteps API server on port %s", appConfig.Server.Port)
		return server.Start(":" + appConfig.Server.Port)
	})
	g.Go(func() error {
		log.Printf("Starting ops server on port %s", appConfig.Server.OpsPort)
		return opsServer.ListenAndServe()
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
