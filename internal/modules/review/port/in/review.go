package in

import (
	"context"

	"metis/internal/modules/review/dto"
)

type Usecase interface {
	ScheduleInitialReview(ctx context.Context, goalID string) error
	RecordReviewOutcome(ctx context.Context, input dto.RecordOutcomeInput) (dto.ReviewOutput, error)
	DueReviews(ctx context.Context, input dto.DueInput) ([]dto.ReviewOutput, error)
	ListReviews(ctx context.Context) ([]dto.ReviewOutput, error)
}
