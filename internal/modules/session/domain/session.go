package domain

import (
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is written into every session journal note.
const SchemaVersion = 1

// GoalSnapshot is the goal a session works on, captured once at start.
type GoalSnapshot struct {
	ID        string
	BookID    string
	BookTitle string
	Text      string
	Level     int
}

// Record is one completed session. Records are append-only.
type Record struct {
	GoalID         string
	StartTime      time.Time
	EndTime        time.Time
	UserPrediction string
	BrainDump      string
	Prediction     string
	AIFeedback     string
	Gap            string
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.GoalID) == "" {
		return fmt.Errorf("goal id is required")
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return fmt.Errorf("start and end time are required")
	}
	if r.EndTime.Before(r.StartTime) {
		return fmt.Errorf("session ended before it started")
	}
	return nil
}

func (r Record) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
