package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Task is a pending callback armed by a Scheduler.
type Task interface {
	// Stop cancels the task. It reports false when the callback already ran
	// or the task was stopped before.
	Stop() bool
}

// Scheduler arms cancellable one-shot callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (SystemClock) AfterFunc(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}
