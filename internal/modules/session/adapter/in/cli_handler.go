package in

import (
	"context"

	sessiondto "metis/internal/modules/session/dto"
	sessionin "metis/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, userPrediction string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{UserPrediction: userPrediction})
}

// Submit completes the current stage with text. stage guards against a
// submit aimed at a stage the session already left.
func (h CLIHandler) Submit(ctx context.Context, stage int, text string) (sessiondto.StateOutput, error) {
	return h.usecase.Advance(ctx, sessiondto.AdvanceInput{Trigger: "submit", Payload: text, Stage: stage})
}

func (h CLIHandler) UpdateInput(ctx context.Context, text string) error {
	return h.usecase.UpdateInput(ctx, text)
}

func (h CLIHandler) Abandon(ctx context.Context) error {
	return h.usecase.Abandon(ctx)
}

func (h CLIHandler) State(ctx context.Context) (sessiondto.StateOutput, error) {
	return h.usecase.State(ctx)
}

func (h CLIHandler) History(ctx context.Context) ([]sessiondto.RecordOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Streak(ctx context.Context) (sessiondto.StreakOutput, error) {
	return h.usecase.Streak(ctx)
}
