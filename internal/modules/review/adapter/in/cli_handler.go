package in

import (
	"context"

	"metis/internal/modules/review/dto"
	reviewin "metis/internal/modules/review/port/in"
)

type CLIHandler struct {
	usecase reviewin.Usecase
}

func NewCLIHandler(usecase reviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context, goalID, outcome string) (dto.ReviewOutput, error) {
	return h.usecase.RecordReviewOutcome(ctx, dto.RecordOutcomeInput{GoalID: goalID, Outcome: outcome})
}

func (h CLIHandler) Due(ctx context.Context, today string) ([]dto.ReviewOutput, error) {
	return h.usecase.DueReviews(ctx, dto.DueInput{Today: today})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ReviewOutput, error) {
	return h.usecase.ListReviews(ctx)
}
