package out

import (
	"context"

	"metis/internal/modules/review/domain"
)

type ReviewStore interface {
	// FindByGoal returns apperrors.ErrNotFound when the goal has no item.
	FindByGoal(ctx context.Context, goalID string) (domain.ReviewItem, error)
	// Insert adds item unless one exists for the same goal.
	Insert(ctx context.Context, item domain.ReviewItem) (bool, error)
	// Replace overwrites the existing item for item.GoalID in place.
	Replace(ctx context.Context, item domain.ReviewItem) error
	List(ctx context.Context) ([]domain.ReviewItem, error)
}
