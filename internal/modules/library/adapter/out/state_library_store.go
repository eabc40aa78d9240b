package out

import (
	"context"

	"metis/internal/modules/library/domain"
	libraryout "metis/internal/modules/library/port/out"
	"metis/internal/platform/state"
)

// StateLibraryStore maps the shelf and the goal board onto the shared state
// document.
type StateLibraryStore struct {
	store *state.Store
}

func NewStateLibraryStore(store *state.Store) *StateLibraryStore {
	return &StateLibraryStore{store: store}
}

var (
	_ libraryout.BookStore = (*StateLibraryStore)(nil)
	_ libraryout.GoalStore = (*StateLibraryStore)(nil)
)

func (s *StateLibraryStore) LoadShelf(ctx context.Context) (domain.Shelf, error) {
	var shelf domain.Shelf
	err := s.store.View(ctx, func(doc state.Document) error {
		if doc.MainBook != nil {
			main := fromBookRecord(*doc.MainBook)
			main.Role = domain.RoleMain
			shelf.Main = &main
		}
		shelf.Secondary = make([]domain.Book, 0, len(doc.SubBooks))
		for _, record := range doc.SubBooks {
			book := fromBookRecord(record)
			book.Role = domain.RoleSecondary
			shelf.Secondary = append(shelf.Secondary, book)
		}
		return nil
	})
	return shelf, err
}

func (s *StateLibraryStore) SaveShelf(ctx context.Context, shelf domain.Shelf) error {
	return s.store.Update(ctx, func(doc *state.Document) error {
		doc.MainBook = nil
		if shelf.Main != nil {
			record := toBookRecord(*shelf.Main)
			doc.MainBook = &record
		}
		doc.SubBooks = make([]state.Book, 0, len(shelf.Secondary))
		for _, book := range shelf.Secondary {
			doc.SubBooks = append(doc.SubBooks, toBookRecord(book))
		}
		return nil
	})
}

func (s *StateLibraryStore) LoadBoard(ctx context.Context) (domain.Board, error) {
	var board domain.Board
	err := s.store.View(ctx, func(doc state.Document) error {
		board = make(domain.Board, 0, len(doc.Goals))
		for _, record := range doc.Goals {
			board = append(board, domain.Goal{
				ID:     record.ID,
				BookID: record.BookID,
				Level:  record.Level,
				Text:   record.Text,
				Status: domain.GoalStatus(record.Status),
			})
		}
		return nil
	})
	return board, err
}

func (s *StateLibraryStore) SaveBoard(ctx context.Context, board domain.Board) error {
	return s.store.Update(ctx, func(doc *state.Document) error {
		doc.Goals = make([]state.Goal, 0, len(board))
		for _, goal := range board {
			doc.Goals = append(doc.Goals, state.Goal{
				ID:     goal.ID,
				BookID: goal.BookID,
				Level:  goal.Level,
				Text:   goal.Text,
				Status: string(goal.Status),
			})
		}
		return nil
	})
}

func toBookRecord(book domain.Book) state.Book {
	return state.Book{ID: book.ID, Title: book.Title, CoverURL: book.CoverURL, Role: string(book.Role)}
}

func fromBookRecord(record state.Book) domain.Book {
	return domain.Book{ID: record.ID, Title: record.Title, CoverURL: record.CoverURL, Role: domain.BookRole(record.Role)}
}
