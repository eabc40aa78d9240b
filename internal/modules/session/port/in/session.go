package in

import (
	"context"

	sessiondto "metis/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	Advance(ctx context.Context, input sessiondto.AdvanceInput) (sessiondto.StateOutput, error)
	UpdateInput(ctx context.Context, text string) error
	Abandon(ctx context.Context) error
	State(ctx context.Context) (sessiondto.StateOutput, error)
	History(ctx context.Context) ([]sessiondto.RecordOutput, error)
	Streak(ctx context.Context) (sessiondto.StreakOutput, error)
}
