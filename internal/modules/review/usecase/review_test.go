package usecase_test

import (
	"context"
	"testing"
	"time"

	reviewout "metis/internal/modules/review/adapter/out"
	"metis/internal/modules/review/dto"
	reviewin "metis/internal/modules/review/port/in"
	"metis/internal/modules/review/service"
	"metis/internal/modules/review/usecase"
	"metis/internal/platform/state"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func newUsecase(t *testing.T, clk *fakeClock) (reviewin.Usecase, *state.Store) {
	t.Helper()
	store := state.Open(context.Background(), &state.MemoryBackend{}, nil)
	svc := service.NewReviewService(clk, time.UTC, store, reviewout.NewStateReviewStore(store))
	return usecase.NewInteractor(svc, nil), store
}

func TestScheduleInitialReviewIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}
	uc, store := newUsecase(t, clk)

	if err := uc.ScheduleInitialReview(ctx, "g1"); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	clk.now = clk.now.AddDate(0, 0, 3)
	if err := uc.ScheduleInitialReview(ctx, "g1"); err != nil {
		t.Fatalf("second schedule: %v", err)
	}

	queue := store.Snapshot().ReviewQueue
	if len(queue) != 1 {
		t.Fatalf("expected exactly one review item, got %d", len(queue))
	}
	if queue[0].Interval != 1 || queue[0].DueDate.String() != "2026-02-26" {
		t.Fatalf("second schedule must not change the item, got %+v", queue[0])
	}
	if err := uc.ScheduleInitialReview(ctx, " "); err == nil {
		t.Fatalf("blank goal id should be rejected")
	}
}

func TestRecordReviewOutcomeUpdatesIntervalAndDueDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}
	uc, _ := newUsecase(t, clk)
	if err := uc.ScheduleInitialReview(ctx, "g1"); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	steps := []struct {
		outcome  string
		interval int
		due      string
	}{
		{"perfect", 2, "2026-02-27"},
		{"perfect", 4, "2026-03-01"},
		{"good", 7, "2026-03-04"},
		{"good", 8, "2026-03-05"},
		{"forgot", 1, "2026-02-26"},
		{"shrug", 1, "2026-02-26"},
	}
	for _, step := range steps {
		out, err := uc.RecordReviewOutcome(ctx, dto.RecordOutcomeInput{GoalID: "g1", Outcome: step.outcome})
		if err != nil {
			t.Fatalf("record %s: %v", step.outcome, err)
		}
		if !out.Applied || out.Interval != step.interval {
			t.Fatalf("after %s expected interval %d, got %+v", step.outcome, step.interval, out)
		}
		if out.DueDate != step.due {
			t.Fatalf("after %s expected due %s, got %s", step.outcome, step.due, out.DueDate)
		}
	}
}

func TestRecordReviewOutcomeWithoutItemIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}
	uc, store := newUsecase(t, clk)

	out, err := uc.RecordReviewOutcome(ctx, dto.RecordOutcomeInput{GoalID: "missing", Outcome: "good"})
	if err != nil {
		t.Fatalf("missing item should be a silent no-op, got %v", err)
	}
	if out.Applied {
		t.Fatalf("no-op must not report applied")
	}
	if len(store.Snapshot().ReviewQueue) != 0 {
		t.Fatalf("no-op must not create review items")
	}
}

func TestDueReviewsFiltersByDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{now: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}
	uc, _ := newUsecase(t, clk)
	for _, id := range []string{"g1", "g2"} {
		if err := uc.ScheduleInitialReview(ctx, id); err != nil {
			t.Fatalf("schedule %s: %v", id, err)
		}
	}
	if _, err := uc.RecordReviewOutcome(ctx, dto.RecordOutcomeInput{GoalID: "g1", Outcome: "good"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	due, err := uc.DueReviews(ctx, dto.DueInput{})
	if err != nil {
		t.Fatalf("due today: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("nothing is due on the scheduling day, got %+v", due)
	}

	due, err = uc.DueReviews(ctx, dto.DueInput{Today: "2026-02-26"})
	if err != nil {
		t.Fatalf("due tomorrow: %v", err)
	}
	if len(due) != 1 || due[0].GoalID != "g2" {
		t.Fatalf("expected only g2 due tomorrow, got %+v", due)
	}

	due, err = uc.DueReviews(ctx, dto.DueInput{Today: "2026-03-10"})
	if err != nil {
		t.Fatalf("due later: %v", err)
	}
	if len(due) != 2 || due[0].GoalID != "g1" || due[1].GoalID != "g2" {
		t.Fatalf("expected store order g1,g2, got %+v", due)
	}

	if _, err := uc.DueReviews(ctx, dto.DueInput{Today: "tomorrow"}); err == nil {
		t.Fatalf("malformed date should fail")
	}
}
