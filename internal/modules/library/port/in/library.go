package in

import (
	"context"

	"metis/internal/modules/library/dto"
)

type Usecase interface {
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	SetGoal(ctx context.Context, input dto.SetGoalInput) (dto.GoalOutput, error)
	ListGoals(ctx context.Context, input dto.ListGoalsInput) ([]dto.GoalOutput, error)
	CurrentGoal(ctx context.Context) (dto.CurrentGoalOutput, error)
	MoveGoal(ctx context.Context, input dto.MoveGoalInput) (dto.GoalOutput, error)
	CompleteGoal(ctx context.Context, goalID string) (dto.GoalOutput, error)
}
