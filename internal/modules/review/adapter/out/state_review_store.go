package out

import (
	"context"

	"metis/internal/modules/review/domain"
	reviewout "metis/internal/modules/review/port/out"
	apperrors "metis/internal/platform/errors"
	"metis/internal/platform/state"
)

// StateReviewStore keeps the review queue inside the shared state document.
type StateReviewStore struct {
	store *state.Store
}

func NewStateReviewStore(store *state.Store) reviewout.ReviewStore {
	return &StateReviewStore{store: store}
}

func (s *StateReviewStore) FindByGoal(ctx context.Context, goalID string) (domain.ReviewItem, error) {
	var (
		found domain.ReviewItem
		ok    bool
	)
	err := s.store.View(ctx, func(doc state.Document) error {
		for _, record := range doc.ReviewQueue {
			if record.GoalID == goalID {
				found, ok = fromRecord(record), true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return domain.ReviewItem{}, err
	}
	if !ok {
		return domain.ReviewItem{}, apperrors.ErrNotFound
	}
	return found, nil
}

func (s *StateReviewStore) Insert(ctx context.Context, item domain.ReviewItem) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}
	inserted := false
	err := s.store.Update(ctx, func(doc *state.Document) error {
		for _, record := range doc.ReviewQueue {
			if record.GoalID == item.GoalID {
				return nil
			}
		}
		doc.ReviewQueue = append(doc.ReviewQueue, toRecord(item))
		inserted = true
		return nil
	})
	return inserted, err
}

func (s *StateReviewStore) Replace(ctx context.Context, item domain.ReviewItem) error {
	return s.store.Update(ctx, func(doc *state.Document) error {
		for idx, record := range doc.ReviewQueue {
			if record.GoalID == item.GoalID {
				doc.ReviewQueue[idx] = toRecord(item)
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
}

func (s *StateReviewStore) List(ctx context.Context) ([]domain.ReviewItem, error) {
	var out []domain.ReviewItem
	err := s.store.View(ctx, func(doc state.Document) error {
		out = make([]domain.ReviewItem, 0, len(doc.ReviewQueue))
		for _, record := range doc.ReviewQueue {
			out = append(out, fromRecord(record))
		}
		return nil
	})
	return out, err
}

func toRecord(item domain.ReviewItem) state.ReviewItem {
	return state.ReviewItem{GoalID: item.GoalID, DueDate: item.DueDate, Interval: item.Interval}
}

func fromRecord(record state.ReviewItem) domain.ReviewItem {
	return domain.ReviewItem{GoalID: record.GoalID, DueDate: record.DueDate, Interval: record.Interval}
}
