package out

import (
	"context"

	"metis/internal/modules/session/domain"
	sessionout "metis/internal/modules/session/port/out"
	"metis/internal/platform/state"
)

// StateSessionStore keeps session history and the streak counter inside the
// shared state document.
type StateSessionStore struct {
	store *state.Store
}

func NewStateSessionStore(store *state.Store) *StateSessionStore {
	return &StateSessionStore{store: store}
}

var (
	_ sessionout.SessionStore = (*StateSessionStore)(nil)
	_ sessionout.StreakStore  = (*StateSessionStore)(nil)
)

func (s *StateSessionStore) Append(ctx context.Context, record domain.Record) error {
	return s.store.Update(ctx, func(doc *state.Document) error {
		doc.Sessions = append(doc.Sessions, state.Session{
			GoalID:         record.GoalID,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			UserPrediction: record.UserPrediction,
			BrainDump:      record.BrainDump,
			Prediction:     record.Prediction,
			AIFeedback:     record.AIFeedback,
			Gap:            record.Gap,
		})
		return nil
	})
}

func (s *StateSessionStore) List(ctx context.Context) ([]domain.Record, error) {
	var out []domain.Record
	err := s.store.View(ctx, func(doc state.Document) error {
		out = make([]domain.Record, 0, len(doc.Sessions))
		for _, session := range doc.Sessions {
			out = append(out, domain.Record{
				GoalID:         session.GoalID,
				StartTime:      session.StartTime,
				EndTime:        session.EndTime,
				UserPrediction: session.UserPrediction,
				BrainDump:      session.BrainDump,
				Prediction:     session.Prediction,
				AIFeedback:     session.AIFeedback,
				Gap:            session.Gap,
			})
		}
		return nil
	})
	return out, err
}

func (s *StateSessionStore) LoadStreak(ctx context.Context) (domain.Streak, error) {
	var streak domain.Streak
	err := s.store.View(ctx, func(doc state.Document) error {
		streak = domain.Streak{Days: doc.Streak, LastSessionDate: doc.LastSessionDate}
		return nil
	})
	return streak, err
}

func (s *StateSessionStore) SaveStreak(ctx context.Context, streak domain.Streak) error {
	return s.store.Update(ctx, func(doc *state.Document) error {
		doc.Streak = streak.Days
		doc.LastSessionDate = streak.LastSessionDate
		return nil
	})
}
