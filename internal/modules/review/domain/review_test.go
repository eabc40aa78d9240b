package domain_test

import (
	"slices"
	"testing"

	"metis/internal/modules/review/domain"
	"metis/internal/platform/date"
)

func TestNextInterval(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		current int
		outcome domain.Outcome
		want    int
	}{
		{"forgot resets long interval", 30, domain.OutcomeForgot, 1},
		{"forgot resets initial interval", 1, domain.OutcomeForgot, 1},
		{"good jumps to floor", 3, domain.OutcomeGood, 7},
		{"good from six hits floor", 6, domain.OutcomeGood, 7},
		{"good grows past floor", 10, domain.OutcomeGood, 11},
		{"good on unset interval", 0, domain.OutcomeGood, 7},
		{"perfect doubles", 4, domain.OutcomePerfect, 8},
		{"perfect on unset interval", 0, domain.OutcomePerfect, 2},
		{"unknown keeps interval", 5, domain.Outcome("meh"), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.NextInterval(tc.current, tc.outcome); got != tc.want {
				t.Fatalf("NextInterval(%d, %s) = %d, want %d", tc.current, tc.outcome, got, tc.want)
			}
		})
	}
}

func TestNewItemAndReschedule(t *testing.T) {
	t.Parallel()
	today := date.New(2026, 2, 25)
	item := domain.NewItem("g1", today)
	if item.Interval != 1 || item.DueDate.String() != "2026-02-26" {
		t.Fatalf("unexpected initial item %+v", item)
	}
	if err := item.Validate(); err != nil {
		t.Fatalf("initial item should be valid: %v", err)
	}

	later := date.New(2026, 3, 1)
	next := item.Reschedule(domain.OutcomeGood, later)
	if next.Interval != 7 || next.DueDate.String() != "2026-03-08" || next.GoalID != "g1" {
		t.Fatalf("unexpected rescheduled item %+v", next)
	}
	same := next.Reschedule(domain.Outcome("unknown"), later)
	if same.Interval != 7 || same.DueDate.String() != "2026-03-08" {
		t.Fatalf("unknown outcome should keep interval and recompute due date, got %+v", same)
	}
}

func TestDueIsOrderPreservingAndRestartable(t *testing.T) {
	t.Parallel()
	today := date.New(2026, 2, 25)
	items := []domain.ReviewItem{
		{GoalID: "late", DueDate: today.AddDays(3), Interval: 3},
		{GoalID: "today", DueDate: today, Interval: 1},
		{GoalID: "overdue", DueDate: today.AddDays(-2), Interval: 7},
		{GoalID: "tomorrow", DueDate: today.AddDays(1), Interval: 1},
	}
	seq := domain.Due(items, today)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	want := []string{"today", "overdue"}
	if len(first) != len(want) {
		t.Fatalf("expected %d due items, got %+v", len(want), first)
	}
	for i, item := range first {
		if item.GoalID != want[i] {
			t.Fatalf("due order mismatch at %d: got %s want %s", i, item.GoalID, want[i])
		}
	}
	if !slices.Equal(first, second) {
		t.Fatalf("sequence must be restartable: %+v vs %+v", first, second)
	}

	for item := range seq {
		if item.GoalID != "today" {
			t.Fatalf("early break should stop at first item, got %s", item.GoalID)
		}
		break
	}
}

func TestOutcomeParsing(t *testing.T) {
	t.Parallel()
	if domain.ParseOutcome(" Perfect ") != domain.OutcomePerfect {
		t.Fatalf("outcome parsing should normalise case and space")
	}
	if err := domain.Outcome("meh").Validate(); err == nil {
		t.Fatalf("unknown outcome should not validate")
	}
	if err := (domain.ReviewItem{GoalID: "g", Interval: 0}).Validate(); err == nil {
		t.Fatalf("zero interval should not validate")
	}
}
