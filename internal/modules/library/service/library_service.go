package service

import (
	"context"
	"fmt"
	"strings"

	"metis/internal/modules/library/domain"
	libraryout "metis/internal/modules/library/port/out"
	apperrors "metis/internal/platform/errors"
	"metis/internal/platform/id"
	"metis/internal/platform/tx"
)

type LibraryService struct {
	idGen id.Generator
	tx    tx.Manager
	books libraryout.BookStore
	goals libraryout.GoalStore
}

func NewLibraryService(idGen id.Generator, txm tx.Manager, books libraryout.BookStore, goals libraryout.GoalStore) *LibraryService {
	if txm == nil {
		txm = tx.Direct{}
	}
	return &LibraryService{idGen: idGen, tx: txm, books: books, goals: goals}
}

func (s *LibraryService) AddBook(ctx context.Context, title, coverURL string, role domain.BookRole) (domain.Book, error) {
	if err := role.Validate(); err != nil {
		return domain.Book{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	coverURL = strings.TrimSpace(coverURL)
	if coverURL == "" {
		coverURL = domain.PlaceholderCover
	}
	book := domain.Book{
		ID:       s.idGen.New(),
		Title:    strings.TrimSpace(title),
		CoverURL: coverURL,
		Role:     role,
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		shelf, err := s.books.LoadShelf(ctx)
		if err != nil {
			return err
		}
		return s.books.SaveShelf(ctx, shelf.Place(book))
	})
	if err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *LibraryService) Shelf(ctx context.Context) (domain.Shelf, error) {
	return s.books.LoadShelf(ctx)
}

// SetGoal makes text the in-progress goal of the main book. A goal with the
// same text is reused and its level updated.
func (s *LibraryService) SetGoal(ctx context.Context, text string, level int) (domain.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Goal{}, fmt.Errorf("%w: goal text is required", apperrors.ErrInvalidInput)
	}
	var saved domain.Goal
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		shelf, err := s.books.LoadShelf(ctx)
		if err != nil {
			return err
		}
		if shelf.Main == nil {
			return fmt.Errorf("%w: no main book", apperrors.ErrNotFound)
		}
		board, err := s.goals.LoadBoard(ctx)
		if err != nil {
			return err
		}
		goal, ok := board.FindByText(shelf.Main.ID, text)
		if !ok {
			goal = domain.Goal{ID: s.idGen.New(), BookID: shelf.Main.ID, Text: text, Status: domain.StatusTodo}
			board = append(board, goal)
		}
		goal.Level = level
		if err := goal.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		for idx := range board {
			if board[idx].ID == goal.ID {
				board[idx].Level = level
			}
		}
		board, _ = board.Move(goal.ID, domain.StatusInProgress)
		goal.Status = domain.StatusInProgress
		saved = goal
		return s.goals.SaveBoard(ctx, board)
	})
	if err != nil {
		return domain.Goal{}, err
	}
	return saved, nil
}

func (s *LibraryService) Goals(ctx context.Context, bookID string) (domain.Board, error) {
	board, err := s.goals.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}
	if bookID == "" {
		return board, nil
	}
	out := make(domain.Board, 0, len(board))
	for _, goal := range board {
		if goal.BookID == bookID {
			out = append(out, goal)
		}
	}
	return out, nil
}

// Current returns the main book and its in-progress goal. ok is false when
// either is missing.
func (s *LibraryService) Current(ctx context.Context) (domain.Goal, domain.Book, bool, error) {
	shelf, err := s.books.LoadShelf(ctx)
	if err != nil {
		return domain.Goal{}, domain.Book{}, false, err
	}
	if shelf.Main == nil {
		return domain.Goal{}, domain.Book{}, false, nil
	}
	board, err := s.goals.LoadBoard(ctx)
	if err != nil {
		return domain.Goal{}, domain.Book{}, false, err
	}
	goal, ok := board.InProgress(shelf.Main.ID)
	return goal, *shelf.Main, ok, nil
}

// Move changes the status of a goal and returns it together with its status
// before the move.
func (s *LibraryService) Move(ctx context.Context, goalID string, status domain.GoalStatus) (domain.Goal, domain.GoalStatus, error) {
	if err := status.Validate(); err != nil {
		return domain.Goal{}, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	var (
		moved    domain.Goal
		previous domain.GoalStatus
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		board, err := s.goals.LoadBoard(ctx)
		if err != nil {
			return err
		}
		board, previous = board.Move(goalID, status)
		if previous == "" {
			return fmt.Errorf("%w: goal %q", apperrors.ErrNotFound, goalID)
		}
		for _, goal := range board {
			if goal.ID == goalID {
				moved = goal
			}
		}
		return s.goals.SaveBoard(ctx, board)
	})
	if err != nil {
		return domain.Goal{}, "", err
	}
	return moved, previous, nil
}
