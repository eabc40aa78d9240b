package out

import (
	"context"

	"metis/internal/modules/session/domain"
)

type SessionStore interface {
	Append(ctx context.Context, record domain.Record) error
	List(ctx context.Context) ([]domain.Record, error)
}

type StreakStore interface {
	LoadStreak(ctx context.Context) (domain.Streak, error)
	SaveStreak(ctx context.Context, streak domain.Streak) error
}

// Journal writes a human-readable note of a finished session and returns
// its location.
type Journal interface {
	Write(ctx context.Context, record domain.Record, goal domain.GoalSnapshot) (string, error)
}
