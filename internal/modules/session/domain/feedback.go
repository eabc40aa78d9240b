package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinFeedbackLength is the shortest brain dump, in characters, that gets
// an analysis.
const MinFeedbackLength = 10

const tooShortFeedback = "The notes are too short to analyse. Try writing down more of what you read."

// ComposeFeedback is the templated stand-in for a feedback generator. The
// same brain dump and goal always produce the same text.
func ComposeFeedback(brainDump string, goal GoalSnapshot) string {
	if utf8.RuneCountInString(strings.TrimSpace(brainDump)) < MinFeedbackLength {
		return tooShortFeedback
	}
	return fmt.Sprintf(
		"A solid summary. It shows real thought about the goal '%s'.\n\nConsider explaining in more depth how the key concepts connect to each other.",
		strings.TrimSpace(goal.Text),
	)
}
