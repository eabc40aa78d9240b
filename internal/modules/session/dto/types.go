package dto

import "time"

type StartInput struct {
	// UserPrediction is the learner's one-line guess of what the goal will
	// teach them, asked before the session starts.
	UserPrediction string
}

// StartOutput reports Started=false when there is no in-progress goal to
// work on.
type StartOutput struct {
	Started bool
	State   StateOutput
}

// AdvanceInput fires a trigger at the current stage. A non-zero Stage
// guards against stale submits: the trigger is ignored unless the session
// is still in that stage.
type AdvanceInput struct {
	Trigger string
	Payload string
	Stage   int
}

type StateOutput struct {
	Active        bool
	CurrentStage  int
	StageName     string
	TimeRemaining int
	GoalID        string
	GoalText      string
	GoalLevel     int
	BookTitle     string
	StartTime     time.Time
	PendingInput  string

	UserPrediction string
	BrainDump      string
	Prediction     string
	AIFeedback     string
	Gap            string

	// Completed is set on the advance that finalized the session.
	Completed   bool
	JournalPath string
}

type RecordOutput struct {
	GoalID          string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	UserPrediction  string
	BrainDump       string
	Prediction      string
	AIFeedback      string
	Gap             string
}

type StreakOutput struct {
	Days            int
	LastSessionDate string
}
