package in

import (
	"context"

	"metis/internal/modules/library/dto"
	libraryin "metis/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddBook(ctx context.Context, title, coverURL, role string) (dto.BookOutput, error) {
	return h.usecase.AddBook(ctx, dto.AddBookInput{Title: title, CoverURL: coverURL, Role: role})
}

func (h CLIHandler) ListBooks(ctx context.Context) ([]dto.BookOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) SetGoal(ctx context.Context, text string, level int) (dto.GoalOutput, error) {
	return h.usecase.SetGoal(ctx, dto.SetGoalInput{Text: text, Level: level})
}

func (h CLIHandler) ListGoals(ctx context.Context, bookID string) ([]dto.GoalOutput, error) {
	return h.usecase.ListGoals(ctx, dto.ListGoalsInput{BookID: bookID})
}

func (h CLIHandler) CurrentGoal(ctx context.Context) (dto.CurrentGoalOutput, error) {
	return h.usecase.CurrentGoal(ctx)
}

func (h CLIHandler) MoveGoal(ctx context.Context, goalID, status string) (dto.GoalOutput, error) {
	return h.usecase.MoveGoal(ctx, dto.MoveGoalInput{GoalID: goalID, Status: status})
}
