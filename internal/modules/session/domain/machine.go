package domain

import (
	"fmt"
	"strings"
	"time"
)

type Stage int

const (
	StageNone Stage = iota
	StageFocusedReading
	StageBrainDump
	StagePrediction
	StageComparison
	StageGapAnalysis
	StageCompletion
)

func (s Stage) String() string {
	switch s {
	case StageFocusedReading:
		return "focused reading"
	case StageBrainDump:
		return "brain dump"
	case StagePrediction:
		return "prediction"
	case StageComparison:
		return "comparison"
	case StageGapAnalysis:
		return "gap analysis"
	case StageCompletion:
		return "completion"
	default:
		return "none"
	}
}

// Timed reports whether the stage runs against a countdown.
func (s Stage) Timed() bool {
	return s == StageFocusedReading || s == StageBrainDump
}

// AcceptsInput reports whether the stage collects free text.
func (s Stage) AcceptsInput() bool {
	return s == StageBrainDump || s == StagePrediction || s == StageGapAnalysis
}

type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerSubmit Trigger = "submit"
)

func ParseTrigger(s string) Trigger {
	return Trigger(strings.ToLower(strings.TrimSpace(s)))
}

func (t Trigger) Validate() error {
	switch t {
	case TriggerTimer, TriggerSubmit:
		return nil
	default:
		return fmt.Errorf("unsupported trigger %q", string(t))
	}
}

// Draft accumulates the fields of the record while a session runs.
type Draft struct {
	StartTime      time.Time
	UserPrediction string
	BrainDump      string
	Prediction     string
	AIFeedback     string
	Gap            string
}

// Machine walks one session through its six stages in strict order. It is
// not safe for concurrent use.
type Machine struct {
	stage        Stage
	goal         GoalSnapshot
	draft        Draft
	pending      string
	feedbackDone bool
}

func NewMachine(goal GoalSnapshot, startTime time.Time, userPrediction string) *Machine {
	return &Machine{
		stage: StageFocusedReading,
		goal:  goal,
		draft: Draft{StartTime: startTime, UserPrediction: userPrediction},
	}
}

func (m *Machine) Stage() Stage       { return m.stage }
func (m *Machine) Goal() GoalSnapshot { return m.goal }
func (m *Machine) Draft() Draft       { return m.draft }
func (m *Machine) Pending() string    { return m.pending }
func (m *Machine) Done() bool         { return m.stage == StageCompletion }

// SetPending records the text typed so far in an input stage. It is what a
// brain dump holds when its timer runs out before a submit.
func (m *Machine) SetPending(text string) {
	if m.stage.AcceptsInput() {
		m.pending = text
	}
}

// Advance fires trigger against stage from. It reports false, leaving the
// machine untouched, when the machine already left from or the trigger does
// not apply to it. A timer firing after a submit is therefore a no-op.
func (m *Machine) Advance(from Stage, trigger Trigger, payload string) bool {
	if m.stage != from {
		return false
	}
	switch from {
	case StageFocusedReading:
		if trigger != TriggerTimer && trigger != TriggerSubmit {
			return false
		}
	case StageBrainDump:
		switch trigger {
		case TriggerTimer:
			m.draft.BrainDump = m.pending
		case TriggerSubmit:
			m.draft.BrainDump = payload
		default:
			return false
		}
	case StagePrediction:
		if trigger != TriggerSubmit {
			return false
		}
		m.draft.Prediction = payload
	case StageComparison:
		if trigger != TriggerSubmit {
			return false
		}
	case StageGapAnalysis:
		if trigger != TriggerSubmit {
			return false
		}
		m.draft.Gap = payload
	default:
		return false
	}
	m.stage++
	m.pending = ""
	if m.stage == StageComparison && !m.feedbackDone {
		m.draft.AIFeedback = ComposeFeedback(m.draft.BrainDump, m.goal)
		m.feedbackDone = true
	}
	return true
}

// Record builds the session record once the machine reached completion.
// An end time before the start, e.g. after the wall clock was stepped
// back, is clamped to the start.
func (m *Machine) Record(endTime time.Time) (Record, error) {
	if !m.Done() {
		return Record{}, fmt.Errorf("session is still in stage %s", m.stage)
	}
	if endTime.Before(m.draft.StartTime) {
		endTime = m.draft.StartTime
	}
	return Record{
		GoalID:         m.goal.ID,
		StartTime:      m.draft.StartTime,
		EndTime:        endTime,
		UserPrediction: m.draft.UserPrediction,
		BrainDump:      m.draft.BrainDump,
		Prediction:     m.draft.Prediction,
		AIFeedback:     m.draft.AIFeedback,
		Gap:            m.draft.Gap,
	}, nil
}
