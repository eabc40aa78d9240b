package domain_test

import (
	"testing"

	"metis/internal/modules/library/domain"
)

func TestRoleAndStatusValidate(t *testing.T) {
	t.Parallel()
	if err := domain.ParseRole("").Validate(); err != nil {
		t.Fatalf("blank role should default to main: %v", err)
	}
	if err := domain.ParseRole("Secondary").Validate(); err != nil {
		t.Fatalf("secondary should be valid: %v", err)
	}
	if err := domain.BookRole("sidekick").Validate(); err == nil {
		t.Fatalf("unknown role should fail")
	}
	if err := domain.ParseStatus(" In-Progress ").Validate(); err != nil {
		t.Fatalf("in-progress should be valid: %v", err)
	}
	if err := domain.GoalStatus("blocked").Validate(); err == nil {
		t.Fatalf("unknown status should fail")
	}
}

func TestGoalValidate(t *testing.T) {
	t.Parallel()
	base := domain.Goal{ID: "g1", BookID: "b1", Level: 2, Text: "explain chapter 3", Status: domain.StatusTodo}
	if err := base.Validate(); err != nil {
		t.Fatalf("goal should be valid: %v", err)
	}
	missingText := base
	missingText.Text = "  "
	if err := missingText.Validate(); err == nil {
		t.Fatalf("missing text should fail")
	}
	negative := base
	negative.Level = -1
	if err := negative.Validate(); err == nil {
		t.Fatalf("negative level should fail")
	}
	orphan := base
	orphan.BookID = ""
	if err := orphan.Validate(); err == nil {
		t.Fatalf("missing book id should fail")
	}
}

func TestShelfPlaceDemotesPreviousMain(t *testing.T) {
	t.Parallel()
	shelf := domain.Shelf{}
	shelf = shelf.Place(domain.Book{ID: "b1", Title: "First", Role: domain.RoleMain})
	shelf = shelf.Place(domain.Book{ID: "b2", Title: "Side", Role: domain.RoleSecondary})
	shelf = shelf.Place(domain.Book{ID: "b3", Title: "Second", Role: domain.RoleMain})

	if shelf.Main == nil || shelf.Main.ID != "b3" {
		t.Fatalf("expected b3 as main, got %+v", shelf.Main)
	}
	if len(shelf.Secondary) != 2 {
		t.Fatalf("expected two secondary books, got %+v", shelf.Secondary)
	}
	if shelf.Secondary[1].ID != "b1" || shelf.Secondary[1].Role != domain.RoleSecondary {
		t.Fatalf("previous main should be demoted, got %+v", shelf.Secondary[1])
	}
}

func TestBoardMoveKeepsOneInProgressPerBook(t *testing.T) {
	t.Parallel()
	board := domain.Board{
		{ID: "g1", BookID: "b1", Text: "a", Status: domain.StatusInProgress},
		{ID: "g2", BookID: "b1", Text: "b", Status: domain.StatusTodo},
		{ID: "g3", BookID: "b2", Text: "c", Status: domain.StatusInProgress},
	}
	moved, previous := board.Move("g2", domain.StatusInProgress)
	if previous != domain.StatusTodo {
		t.Fatalf("expected previous todo, got %q", previous)
	}
	if moved[0].Status != domain.StatusTodo || moved[1].Status != domain.StatusInProgress {
		t.Fatalf("expected g1 demoted and g2 promoted, got %+v", moved)
	}
	if moved[2].Status != domain.StatusInProgress {
		t.Fatalf("other books must be untouched, got %+v", moved[2])
	}
	if board[0].Status != domain.StatusInProgress {
		t.Fatalf("move must not mutate the receiver")
	}
	if _, previous := board.Move("missing", domain.StatusCompleted); previous != "" {
		t.Fatalf("unknown goal should report empty previous status")
	}
	if goal, ok := moved.InProgress("b1"); !ok || goal.ID != "g2" {
		t.Fatalf("expected g2 in progress, got %+v %v", goal, ok)
	}
	if goal, ok := moved.FindByText("b1", " b "); !ok || goal.ID != "g2" {
		t.Fatalf("expected text match on g2, got %+v %v", goal, ok)
	}
}
