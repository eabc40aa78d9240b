package dto

type AddBookInput struct {
	Title    string
	CoverURL string
	// Role is main or secondary. Empty means main.
	Role string
}

type BookOutput struct {
	ID       string
	Title    string
	CoverURL string
	Role     string
}

type SetGoalInput struct {
	Text  string
	Level int
}

// ListGoalsInput filters goals by book. An empty BookID lists every goal.
type ListGoalsInput struct {
	BookID string
}

type MoveGoalInput struct {
	GoalID string
	Status string
}

type GoalOutput struct {
	ID     string
	BookID string
	Level  int
	Text   string
	Status string
}

// CurrentGoalOutput describes the goal a session works on. Found is false
// when there is no main book or it has no in-progress goal.
type CurrentGoalOutput struct {
	Found     bool
	Goal      GoalOutput
	BookTitle string
}
