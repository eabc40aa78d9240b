package service

import (
	"context"
	"fmt"
	"time"

	"metis/internal/modules/session/domain"
	sessionout "metis/internal/modules/session/port/out"
	"metis/internal/platform/clock"
	"metis/internal/platform/date"
)

type SessionService struct {
	clock   clock.Clock
	loc     *time.Location
	records sessionout.SessionStore
	streaks sessionout.StreakStore
	journal sessionout.Journal
}

func NewSessionService(clock clock.Clock, loc *time.Location, records sessionout.SessionStore, streaks sessionout.StreakStore, journal sessionout.Journal) *SessionService {
	if loc == nil {
		loc = time.Local
	}
	return &SessionService{clock: clock, loc: loc, records: records, streaks: streaks, journal: journal}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

// Complete stores a finished session and counts it towards the streak.
// Callers run it inside a transaction together with the goal update.
func (s *SessionService) Complete(ctx context.Context, record domain.Record) (domain.Streak, error) {
	if err := record.Validate(); err != nil {
		return domain.Streak{}, fmt.Errorf("invalid session record: %w", err)
	}
	if err := s.records.Append(ctx, record); err != nil {
		return domain.Streak{}, err
	}
	current, err := s.streaks.LoadStreak(ctx)
	if err != nil {
		return domain.Streak{}, err
	}
	next := current.Next(date.In(record.EndTime, s.loc))
	if err := s.streaks.SaveStreak(ctx, next); err != nil {
		return domain.Streak{}, err
	}
	return next, nil
}

// WriteJournal is best effort. An empty path means no journal is configured.
func (s *SessionService) WriteJournal(ctx context.Context, record domain.Record, goal domain.GoalSnapshot) (string, error) {
	if s.journal == nil {
		return "", nil
	}
	return s.journal.Write(ctx, record, goal)
}

func (s *SessionService) History(ctx context.Context) ([]domain.Record, error) {
	return s.records.List(ctx)
}

func (s *SessionService) Streak(ctx context.Context) (domain.Streak, error) {
	return s.streaks.LoadStreak(ctx)
}
