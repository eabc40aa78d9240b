package bootstrap_test

import (
	"context"
	"testing"

	"metis/internal/bootstrap"
	"metis/internal/platform/config"
	"metis/internal/platform/logging"
)

func TestAppPersistsAcrossRestart(t *testing.T) {
	t.Parallel()
	for _, storage := range []string{config.StorageJSON, config.StorageSQLite} {
		storage := storage
		t.Run(storage, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			cfg, err := config.New(t.TempDir())
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			cfg.Storage = storage

			app, err := bootstrap.New(ctx, cfg, logging.Discard())
			if err != nil {
				t.Fatalf("new app: %v", err)
			}
			if _, err := app.LibraryCLI.AddBook(ctx, "Dune", "", "main"); err != nil {
				t.Fatalf("add book: %v", err)
			}
			goal, err := app.LibraryCLI.SetGoal(ctx, "Summarise part one", 1)
			if err != nil {
				t.Fatalf("set goal: %v", err)
			}
			if _, err := app.LibraryCLI.MoveGoal(ctx, goal.ID, "completed"); err != nil {
				t.Fatalf("move goal: %v", err)
			}
			if err := app.Close(ctx); err != nil {
				t.Fatalf("close: %v", err)
			}

			reopened, err := bootstrap.New(ctx, cfg, logging.Discard())
			if err != nil {
				t.Fatalf("reopen app: %v", err)
			}
			defer func() { _ = reopened.Close(ctx) }()
			books, err := reopened.LibraryCLI.ListBooks(ctx)
			if err != nil || len(books) != 1 || books[0].Title != "Dune" {
				t.Fatalf("unexpected books %+v err=%v", books, err)
			}
			queue, err := reopened.ReviewCLI.List(ctx)
			if err != nil {
				t.Fatalf("list reviews: %v", err)
			}
			if len(queue) != 1 || queue[0].GoalID != goal.ID || queue[0].Interval != 1 {
				t.Fatalf("unexpected review queue %+v", queue)
			}
		})
	}
}

func TestSessionStartWithoutGoalIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	app, err := bootstrap.New(ctx, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer func() { _ = app.Close(ctx) }()

	out, err := app.SessionCLI.Start(ctx, "I will remember the names")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.Started {
		t.Fatalf("session should not start without an in-progress goal")
	}
	state, err := app.SessionCLI.State(ctx)
	if err != nil || state.Active {
		t.Fatalf("unexpected state %+v err=%v", state, err)
	}
}
