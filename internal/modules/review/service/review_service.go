package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"metis/internal/modules/review/domain"
	reviewout "metis/internal/modules/review/port/out"
	"metis/internal/platform/clock"
	"metis/internal/platform/date"
	apperrors "metis/internal/platform/errors"
	"metis/internal/platform/tx"
)

type ReviewService struct {
	clock clock.Clock
	loc   *time.Location
	tx    tx.Manager
	store reviewout.ReviewStore
}

func NewReviewService(clock clock.Clock, loc *time.Location, txm tx.Manager, store reviewout.ReviewStore) *ReviewService {
	if loc == nil {
		loc = time.Local
	}
	if txm == nil {
		txm = tx.Direct{}
	}
	return &ReviewService{clock: clock, loc: loc, tx: txm, store: store}
}

func (s *ReviewService) Today() date.Date {
	return date.In(s.clock.Now(), s.loc)
}

// ScheduleInitial seeds the first review of a goal. It reports false when
// the goal already had an item, which is left untouched.
func (s *ReviewService) ScheduleInitial(ctx context.Context, goalID string) (domain.ReviewItem, bool, error) {
	if strings.TrimSpace(goalID) == "" {
		return domain.ReviewItem{}, false, fmt.Errorf("%w: goal id is required", apperrors.ErrInvalidInput)
	}
	item := domain.NewItem(goalID, s.Today())
	inserted, err := s.store.Insert(ctx, item)
	if err != nil {
		return domain.ReviewItem{}, false, err
	}
	return item, inserted, nil
}

// Record applies a review outcome. It reports false when the goal has no
// review item.
func (s *ReviewService) Record(ctx context.Context, goalID string, outcome domain.Outcome) (domain.ReviewItem, bool, error) {
	var (
		updated domain.ReviewItem
		applied bool
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.FindByGoal(ctx, goalID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		updated = current.Reschedule(outcome, s.Today())
		if err := s.store.Replace(ctx, updated); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return domain.ReviewItem{}, false, err
	}
	return updated, applied, nil
}

func (s *ReviewService) Due(ctx context.Context, today date.Date) ([]domain.ReviewItem, error) {
	if today.IsZero() {
		today = s.Today()
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Collect(domain.Due(items, today)), nil
}

func (s *ReviewService) List(ctx context.Context) ([]domain.ReviewItem, error) {
	return s.store.List(ctx)
}
