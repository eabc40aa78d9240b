package usecase

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"metis/internal/modules/review/domain"
	"metis/internal/modules/review/dto"
	reviewin "metis/internal/modules/review/port/in"
	"metis/internal/modules/review/service"
	"metis/internal/platform/date"
	apperrors "metis/internal/platform/errors"
)

type Interactor struct {
	svc *service.ReviewService
	log hclog.Logger
}

func NewInteractor(svc *service.ReviewService, log hclog.Logger) reviewin.Usecase {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, log: log}
}

func (i *Interactor) ScheduleInitialReview(ctx context.Context, goalID string) error {
	item, inserted, err := i.svc.ScheduleInitial(ctx, goalID)
	if err != nil {
		return err
	}
	if inserted {
		i.log.Debug("review scheduled", "goal_id", goalID, "due", item.DueDate.String())
	}
	return nil
}

func (i *Interactor) RecordReviewOutcome(ctx context.Context, input dto.RecordOutcomeInput) (dto.ReviewOutput, error) {
	outcome := domain.ParseOutcome(input.Outcome)
	if err := outcome.Validate(); err != nil {
		i.log.Warn("unrecognized review outcome, keeping interval", "goal_id", input.GoalID, "outcome", input.Outcome)
	}
	item, applied, err := i.svc.Record(ctx, input.GoalID, outcome)
	if err != nil {
		return dto.ReviewOutput{}, err
	}
	if !applied {
		i.log.Debug("no review item for goal", "goal_id", input.GoalID)
		return dto.ReviewOutput{GoalID: input.GoalID}, nil
	}
	i.log.Debug("review recorded", "goal_id", item.GoalID, "outcome", string(outcome), "interval", item.Interval)
	out := toOutput(item)
	out.Applied = true
	return out, nil
}

func (i *Interactor) DueReviews(ctx context.Context, input dto.DueInput) ([]dto.ReviewOutput, error) {
	today, err := date.Parse(input.Today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	items, err := i.svc.Due(ctx, today)
	if err != nil {
		return nil, err
	}
	return toOutputs(items), nil
}

func (i *Interactor) ListReviews(ctx context.Context) ([]dto.ReviewOutput, error) {
	items, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(items), nil
}

func toOutput(item domain.ReviewItem) dto.ReviewOutput {
	return dto.ReviewOutput{GoalID: item.GoalID, DueDate: item.DueDate.String(), Interval: item.Interval}
}

func toOutputs(items []domain.ReviewItem) []dto.ReviewOutput {
	out := make([]dto.ReviewOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toOutput(item))
	}
	return out
}
