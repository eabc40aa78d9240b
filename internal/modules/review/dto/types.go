package dto

type RecordOutcomeInput struct {
	GoalID  string
	Outcome string
}

// DueInput selects the day to evaluate. An empty Today means the current day.
type DueInput struct {
	Today string
}

type ReviewOutput struct {
	GoalID   string
	DueDate  string
	Interval int
	// Applied is false when the request was a no-op, e.g. no review item
	// exists for the goal.
	Applied bool
}
