package domain

import (
	"fmt"
	"iter"
	"strings"

	"metis/internal/platform/date"
)

// Outcome is the learner's self-assessed recall for a review.
type Outcome string

const (
	OutcomeForgot  Outcome = "forgot"
	OutcomeGood    Outcome = "good"
	OutcomePerfect Outcome = "perfect"
)

const (
	InitialInterval   = 1
	ForgotInterval    = 1
	GoodFloor         = 7
	PerfectMultiplier = 2
)

func ParseOutcome(s string) Outcome {
	return Outcome(strings.ToLower(strings.TrimSpace(s)))
}

func (o Outcome) Validate() error {
	switch o {
	case OutcomeForgot, OutcomeGood, OutcomePerfect:
		return nil
	default:
		return fmt.Errorf("unsupported review outcome %q", string(o))
	}
}

// ReviewItem schedules the next recall of one completed goal.
type ReviewItem struct {
	GoalID   string
	DueDate  date.Date
	Interval int
}

func NewItem(goalID string, today date.Date) ReviewItem {
	return ReviewItem{
		GoalID:   goalID,
		DueDate:  today.AddDays(InitialInterval),
		Interval: InitialInterval,
	}
}

func (r ReviewItem) Validate() error {
	if strings.TrimSpace(r.GoalID) == "" {
		return fmt.Errorf("goal id is required")
	}
	if r.Interval < 1 {
		return fmt.Errorf("interval must be at least 1 day, got %d", r.Interval)
	}
	return nil
}

// NextInterval applies the forgetting-curve policy: forgot restarts the
// curve, good grows by one day but never below GoodFloor, perfect doubles.
// An unrecognized outcome leaves the interval unchanged.
func NextInterval(current int, outcome Outcome) int {
	switch outcome {
	case OutcomeForgot:
		return ForgotInterval
	case OutcomeGood:
		return max(current+1, GoodFloor)
	case OutcomePerfect:
		if current <= 0 {
			current = 1
		}
		return current * PerfectMultiplier
	default:
		return current
	}
}

// Reschedule returns the item as it stands after a review on today.
func (r ReviewItem) Reschedule(outcome Outcome, today date.Date) ReviewItem {
	next := NextInterval(r.Interval, outcome)
	return ReviewItem{
		GoalID:   r.GoalID,
		DueDate:  today.AddDays(next),
		Interval: next,
	}
}

// IsDue reports whether the item should be shown on today.
func (r ReviewItem) IsDue(today date.Date) bool {
	return !r.DueDate.After(today)
}

// Due yields the items due on or before today, in the order given. The
// sequence can be ranged over any number of times.
func Due(items []ReviewItem, today date.Date) iter.Seq[ReviewItem] {
	return func(yield func(ReviewItem) bool) {
		for _, item := range items {
			if !item.IsDue(today) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}
