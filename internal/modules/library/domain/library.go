package domain

import (
	"fmt"
	"strings"
)

type BookRole string

const (
	RoleMain      BookRole = "main"
	RoleSecondary BookRole = "secondary"
)

// PlaceholderCover is shown for books added without a cover image.
const PlaceholderCover = "https://via.placeholder.com/150x220.png?text=No+Image"

type GoalStatus string

const (
	StatusTodo       GoalStatus = "todo"
	StatusInProgress GoalStatus = "in-progress"
	StatusCompleted  GoalStatus = "completed"
)

type Book struct {
	ID       string
	Title    string
	CoverURL string
	Role     BookRole
}

// Goal is a learning objective attached to one book. Level is the depth of
// understanding the learner aims for.
type Goal struct {
	ID     string
	BookID string
	Level  int
	Text   string
	Status GoalStatus
}

func ParseRole(s string) BookRole {
	role := BookRole(strings.ToLower(strings.TrimSpace(s)))
	if role == "" {
		return RoleMain
	}
	return role
}

func (r BookRole) Validate() error {
	switch r {
	case RoleMain, RoleSecondary:
		return nil
	default:
		return fmt.Errorf("unsupported book role %q", string(r))
	}
}

func ParseStatus(s string) GoalStatus {
	return GoalStatus(strings.ToLower(strings.TrimSpace(s)))
}

func (s GoalStatus) Validate() error {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return nil
	default:
		return fmt.Errorf("unsupported goal status %q", string(s))
	}
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return b.Role.Validate()
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(g.BookID) == "" {
		return fmt.Errorf("book id is required")
	}
	if strings.TrimSpace(g.Text) == "" {
		return fmt.Errorf("goal text is required")
	}
	if g.Level < 0 {
		return fmt.Errorf("level must not be negative, got %d", g.Level)
	}
	return g.Status.Validate()
}

// Shelf is the learner's set of books: at most one main book plus any
// number of secondary ones.
type Shelf struct {
	Main      *Book
	Secondary []Book
}

// Place adds book to the shelf. A new main book pushes the previous main
// book onto the secondary list.
func (s Shelf) Place(book Book) Shelf {
	out := Shelf{Main: s.Main, Secondary: append([]Book(nil), s.Secondary...)}
	if book.Role != RoleMain {
		out.Secondary = append(out.Secondary, book)
		return out
	}
	if out.Main != nil {
		previous := *out.Main
		previous.Role = RoleSecondary
		out.Secondary = append(out.Secondary, previous)
	}
	out.Main = &book
	return out
}

// Board is the goal list of every book.
type Board []Goal

// InProgress returns the goal of bookID currently being worked on.
func (b Board) InProgress(bookID string) (Goal, bool) {
	for _, goal := range b {
		if goal.BookID == bookID && goal.Status == StatusInProgress {
			return goal, true
		}
	}
	return Goal{}, false
}

// FindByText matches a goal of bookID by its trimmed text.
func (b Board) FindByText(bookID, text string) (Goal, bool) {
	text = strings.TrimSpace(text)
	for _, goal := range b {
		if goal.BookID == bookID && strings.TrimSpace(goal.Text) == text {
			return goal, true
		}
	}
	return Goal{}, false
}

// Move sets the status of goal id. Promoting a goal to in-progress demotes
// the other in-progress goal of the same book to todo. The returned
// previous status is empty when id is unknown.
func (b Board) Move(id string, status GoalStatus) (Board, GoalStatus) {
	out := make(Board, len(b))
	copy(out, b)
	idx := -1
	for i, goal := range out {
		if goal.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return out, ""
	}
	previous := out[idx].Status
	if status == StatusInProgress {
		for i := range out {
			if i != idx && out[i].BookID == out[idx].BookID && out[i].Status == StatusInProgress {
				out[i].Status = StatusTodo
			}
		}
	}
	out[idx].Status = status
	return out, previous
}
