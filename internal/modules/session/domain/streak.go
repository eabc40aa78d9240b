package domain

import "metis/internal/platform/date"

// Streak counts consecutive days with at least one completed session.
type Streak struct {
	Days            int
	LastSessionDate date.Date
}

// Next records a session completed on today. A second session on the same
// day leaves the count alone, a session the day after the last one extends
// it, and anything else starts over at one.
func (s Streak) Next(today date.Date) Streak {
	switch {
	case !s.LastSessionDate.IsZero() && s.LastSessionDate.Equal(today):
		return s
	case !s.LastSessionDate.IsZero() && s.LastSessionDate.AddDays(1).Equal(today):
		return Streak{Days: s.Days + 1, LastSessionDate: today}
	default:
		return Streak{Days: 1, LastSessionDate: today}
	}
}
