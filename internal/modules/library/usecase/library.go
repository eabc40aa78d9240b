package usecase

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"metis/internal/modules/library/domain"
	"metis/internal/modules/library/dto"
	libraryin "metis/internal/modules/library/port/in"
	"metis/internal/modules/library/service"
	reviewin "metis/internal/modules/review/port/in"
	"metis/internal/platform/tx"
)

type Interactor struct {
	svc    *service.LibraryService
	tx     tx.Manager
	review reviewin.Usecase
	log    hclog.Logger
}

func NewInteractor(svc *service.LibraryService, txm tx.Manager, review reviewin.Usecase, log hclog.Logger) libraryin.Usecase {
	if txm == nil {
		txm = tx.Direct{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, tx: txm, review: review, log: log}
}

func (i *Interactor) AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	book, err := i.svc.AddBook(ctx, input.Title, input.CoverURL, domain.ParseRole(input.Role))
	if err != nil {
		return dto.BookOutput{}, err
	}
	i.log.Info("book added", "book_id", book.ID, "role", string(book.Role))
	return toBookOutput(book), nil
}

func (i *Interactor) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	shelf, err := i.svc.Shelf(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookOutput, 0, len(shelf.Secondary)+1)
	if shelf.Main != nil {
		out = append(out, toBookOutput(*shelf.Main))
	}
	for _, book := range shelf.Secondary {
		out = append(out, toBookOutput(book))
	}
	return out, nil
}

func (i *Interactor) SetGoal(ctx context.Context, input dto.SetGoalInput) (dto.GoalOutput, error) {
	goal, err := i.svc.SetGoal(ctx, input.Text, input.Level)
	if err != nil {
		return dto.GoalOutput{}, err
	}
	i.log.Info("goal set", "goal_id", goal.ID, "level", goal.Level)
	return toGoalOutput(goal), nil
}

func (i *Interactor) ListGoals(ctx context.Context, input dto.ListGoalsInput) ([]dto.GoalOutput, error) {
	board, err := i.svc.Goals(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoalOutput, 0, len(board))
	for _, goal := range board {
		out = append(out, toGoalOutput(goal))
	}
	return out, nil
}

func (i *Interactor) CurrentGoal(ctx context.Context) (dto.CurrentGoalOutput, error) {
	goal, book, ok, err := i.svc.Current(ctx)
	if err != nil {
		return dto.CurrentGoalOutput{}, err
	}
	if !ok {
		return dto.CurrentGoalOutput{}, nil
	}
	return dto.CurrentGoalOutput{Found: true, Goal: toGoalOutput(goal), BookTitle: book.Title}, nil
}

// MoveGoal changes a goal's board column. The first time a goal reaches
// completed its review schedule is seeded in the same transaction.
func (i *Interactor) MoveGoal(ctx context.Context, input dto.MoveGoalInput) (dto.GoalOutput, error) {
	var moved domain.Goal
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		goal, previous, err := i.svc.Move(ctx, input.GoalID, domain.ParseStatus(input.Status))
		if err != nil {
			return err
		}
		moved = goal
		if goal.Status != domain.StatusCompleted || previous == domain.StatusCompleted || i.review == nil {
			return nil
		}
		return i.review.ScheduleInitialReview(ctx, goal.ID)
	})
	if err != nil {
		return dto.GoalOutput{}, err
	}
	i.log.Debug("goal moved", "goal_id", moved.ID, "status", string(moved.Status))
	return toGoalOutput(moved), nil
}

func (i *Interactor) CompleteGoal(ctx context.Context, goalID string) (dto.GoalOutput, error) {
	return i.MoveGoal(ctx, dto.MoveGoalInput{GoalID: goalID, Status: string(domain.StatusCompleted)})
}

func toBookOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{ID: book.ID, Title: book.Title, CoverURL: book.CoverURL, Role: string(book.Role)}
}

func toGoalOutput(goal domain.Goal) dto.GoalOutput {
	return dto.GoalOutput{ID: goal.ID, BookID: goal.BookID, Level: goal.Level, Text: goal.Text, Status: string(goal.Status)}
}
