package out

import (
	"context"

	"metis/internal/modules/library/domain"
)

type BookStore interface {
	LoadShelf(ctx context.Context) (domain.Shelf, error)
	SaveShelf(ctx context.Context, shelf domain.Shelf) error
}

type GoalStore interface {
	LoadBoard(ctx context.Context) (domain.Board, error)
	SaveBoard(ctx context.Context, board domain.Board) error
}
