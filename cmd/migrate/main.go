package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tinysteps/adapters/localstore"
	"tinysteps/adapters/postgres"
	"tinysteps/domain/core"
	"tinysteps/domain/stats"
	"tinysteps/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Migrates local JSON store data into Postgres: replays each user's session
// history, rebuilds the stats row from it, and copies settings. Safe to run
// against a fresh database; the schema is created first.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <database_url> <data_dir>")
	}

	databaseURL := os.Args[1]
	dataDir := os.Args[2]

	log.Printf("Starting migration from %s to database", dataDir)

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	local, err := localstore.NewStore(dataDir)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	pg := postgres.NewStore(db)

	userIDs, err := findUsers(dataDir)
	if err != nil {
		log.Fatalf("Failed to scan data directory: %v", err)
	}
	log.Printf("Found %d users to migrate", len(userIDs))

	migrated := 0
	skipped := 0

	for _, uid := range userIDs {
		sessions, err := local.ListSessions(ctx, uid)
		if err != nil {
			log.Printf("Failed to load sessions for %s: %v", uid, err)
			skipped++
			continue
		}

		// ListSessions is newest-first; replay oldest-first
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].CompletedAt.Before(sessions[j].CompletedAt)
		})

		failed := false
		for _, sess := range sessions {
			if err := pg.AppendSession(ctx, uid, sess); err != nil {
				log.Printf("Failed to copy session %s for %s: %v", sess.ID, uid, err)
				failed = true
				break
			}
		}
		if failed {
			skipped++
			continue
		}

		if err := pg.UpdateStats(ctx, uid, stats.Recompute(sessions)); err != nil {
			log.Printf("Failed to write stats for %s: %v", uid, err)
			skipped++
			continue
		}

		settings, err := local.Settings(ctx, uid)
		if err == nil {
			if err := pg.SaveSettings(ctx, uid, settings); err != nil {
				log.Printf("Failed to copy settings for %s: %v", uid, err)
			}
		}

		migrated++
		log.Printf("Migrated user %s: %d sessions", uid, len(sessions))
	}

	log.Printf("Migration complete: %d users migrated, %d skipped", migrated, skipped)
}

// findUsers lists user IDs from the per-user JSON documents in dir
func findUsers(dir string) ([]core.UserID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var users []core.UserID
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		users = append(users, core.UserID(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	return users, nil
}
