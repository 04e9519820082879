package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"tinysteps/adapters/localstore"
	"tinysteps/app"
	"tinysteps/domain/core"
	"tinysteps/domain/timer"
)

// Runs one focus session from the terminal: counts down, prints progress
// nudges at 50% and 80%, and records the completed session in the local
// store. Ctrl-C abandons the session without recording it.
func main() {
	task := flag.String("task", "", "task name (required)")
	minutes := flag.Int("minutes", 25, "session length in minutes")
	dataDir := flag.String("data", "./data", "local store directory")
	user := flag.String("user", "local", "user ID")
	flag.Parse()

	if *task == "" {
		fmt.Fprintln(os.Stderr, "-task is required")
		os.Exit(2)
	}
	if *minutes <= 0 {
		fmt.Fprintln(os.Stderr, "-minutes must be > 0")
		os.Exit(2)
	}

	store, err := localstore.NewStore(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	focus := app.NewFocusService(store)
	uid := core.UserID(*user)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	countdown := timer.New(timer.KindFocus, *task, *minutes,
		func(taskName string, durationMinutes int) error {
			_, updated, err := focus.RecordSession(context.Background(), uid, taskName, durationMinutes, nil)
			if err != nil {
				return err
			}
			fmt.Printf("\nDone! streak=%d points=%d level=%d\n", updated.CurrentStreak, updated.TotalPoints, updated.Level())
			return nil
		},
		func(percent int) {
			fmt.Printf("\n%d%% through - keep going\n", percent)
		},
	)

	fmt.Printf("Focusing on %q for %d minutes. Ctrl-C to abandon.\n", *task, *minutes)

	if err := countdown.Run(ctx); err != nil {
		fmt.Println("\nSession abandoned, nothing recorded.")
		os.Exit(1)
	}
	if err := countdown.Err(); err != nil {
		log.Fatalf("Session finished but recording failed: %v", err)
	}
}
