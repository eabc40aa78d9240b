package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	libraryin "metis/internal/modules/library/port/in"
	"metis/internal/modules/session/domain"
	sessiondto "metis/internal/modules/session/dto"
	sessionin "metis/internal/modules/session/port/in"
	"metis/internal/modules/session/service"
	"metis/internal/platform/clock"
	apperrors "metis/internal/platform/errors"
	"metis/internal/platform/tx"
)

// Durations configures the timed stages.
type Durations struct {
	FocusedReading time.Duration
	BrainDump      time.Duration
}

func DefaultDurations() Durations {
	return Durations{FocusedReading: 25 * time.Minute, BrainDump: 5 * time.Minute}
}

// Controller runs at most one guided session at a time. User actions and
// timer callbacks are serialised by mu; each armed timer carries the
// generation it was armed in, so a callback that lost the race against a
// submit finds a newer generation and does nothing.
type Controller struct {
	mu        sync.Mutex
	svc       *service.SessionService
	library   libraryin.Usecase
	tx        tx.Manager
	scheduler clock.Scheduler
	durations Durations
	log       hclog.Logger

	machine    *domain.Machine
	task       clock.Task
	generation uint64
	deadline   time.Time
}

type Options struct {
	Service   *service.SessionService
	Library   libraryin.Usecase
	Tx        tx.Manager
	Scheduler clock.Scheduler
	Durations Durations
	Logger    hclog.Logger
}

func NewController(opts Options) *Controller {
	if opts.Tx == nil {
		opts.Tx = tx.Direct{}
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Durations.FocusedReading <= 0 || opts.Durations.BrainDump <= 0 {
		defaults := DefaultDurations()
		if opts.Durations.FocusedReading <= 0 {
			opts.Durations.FocusedReading = defaults.FocusedReading
		}
		if opts.Durations.BrainDump <= 0 {
			opts.Durations.BrainDump = defaults.BrainDump
		}
	}
	return &Controller{
		svc:       opts.Service,
		library:   opts.Library,
		tx:        opts.Tx,
		scheduler: opts.Scheduler,
		durations: opts.Durations,
		log:       opts.Logger,
	}
}

var _ sessionin.Usecase = (*Controller)(nil)

// Start snapshots the in-progress goal of the main book and enters the
// focused reading stage. Without such a goal it does nothing.
func (c *Controller) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine != nil {
		return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
	}
	current, err := c.library.CurrentGoal(ctx)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if !current.Found {
		c.log.Debug("no in-progress goal, session not started")
		return sessiondto.StartOutput{}, nil
	}
	goal := domain.GoalSnapshot{
		ID:        current.Goal.ID,
		BookID:    current.Goal.BookID,
		BookTitle: current.BookTitle,
		Text:      current.Goal.Text,
		Level:     current.Goal.Level,
	}
	c.machine = domain.NewMachine(goal, c.svc.Now(), input.UserPrediction)
	c.enterLocked(domain.StageFocusedReading)
	c.log.Info("session started", "goal_id", goal.ID)
	return sessiondto.StartOutput{Started: true, State: c.stateLocked()}, nil
}

func (c *Controller) Advance(ctx context.Context, input sessiondto.AdvanceInput) (sessiondto.StateOutput, error) {
	trigger := domain.ParseTrigger(input.Trigger)
	if err := trigger.Validate(); err != nil {
		return sessiondto.StateOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine == nil {
		return sessiondto.StateOutput{}, nil
	}
	from := c.machine.Stage()
	if input.Stage != 0 && domain.Stage(input.Stage) != from {
		return c.stateLocked(), nil
	}
	return c.fireLocked(ctx, from, trigger, input.Payload)
}

func (c *Controller) UpdateInput(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine != nil {
		c.machine.SetPending(text)
	}
	return nil
}

// Abandon drops the running session without recording it.
func (c *Controller) Abandon(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine == nil {
		return nil
	}
	c.log.Info("session abandoned", "goal_id", c.machine.Goal().ID, "stage", c.machine.Stage().String())
	c.resetLocked()
	return nil
}

func (c *Controller) State(_ context.Context) (sessiondto.StateOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(), nil
}

func (c *Controller) History(ctx context.Context) ([]sessiondto.RecordOutput, error) {
	records, err := c.svc.History(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.RecordOutput, 0, len(records))
	for _, record := range records {
		out = append(out, sessiondto.RecordOutput{
			GoalID:          record.GoalID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			DurationMinutes: int(record.Duration().Minutes()),
			UserPrediction:  record.UserPrediction,
			BrainDump:       record.BrainDump,
			Prediction:      record.Prediction,
			AIFeedback:      record.AIFeedback,
			Gap:             record.Gap,
		})
	}
	return out, nil
}

func (c *Controller) Streak(ctx context.Context) (sessiondto.StreakOutput, error) {
	streak, err := c.svc.Streak(ctx)
	if err != nil {
		return sessiondto.StreakOutput{}, err
	}
	return sessiondto.StreakOutput{Days: streak.Days, LastSessionDate: streak.LastSessionDate.String()}, nil
}

func (c *Controller) onTimer(generation uint64, stage domain.Stage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine == nil || generation != c.generation {
		return
	}
	c.task = nil
	if _, err := c.fireLocked(context.Background(), stage, domain.TriggerTimer, ""); err != nil {
		c.log.Error("timer advance failed", "stage", stage.String(), "error", err)
	}
}

func (c *Controller) fireLocked(ctx context.Context, from domain.Stage, trigger domain.Trigger, payload string) (sessiondto.StateOutput, error) {
	if !c.machine.Advance(from, trigger, payload) {
		return c.stateLocked(), nil
	}
	next := c.machine.Stage()
	c.log.Debug("session advanced", "from", from.String(), "to", next.String(), "trigger", string(trigger))
	if next != domain.StageCompletion {
		c.enterLocked(next)
		return c.stateLocked(), nil
	}
	return c.finalizeLocked(ctx)
}

// enterLocked releases the timer of the stage being left and arms one for
// stage when it is timed.
func (c *Controller) enterLocked(stage domain.Stage) {
	c.stopTimerLocked()
	var d time.Duration
	switch stage {
	case domain.StageFocusedReading:
		d = c.durations.FocusedReading
	case domain.StageBrainDump:
		d = c.durations.BrainDump
	default:
		return
	}
	c.generation++
	generation := c.generation
	c.deadline = c.svc.Now().Add(d)
	c.task = c.scheduler.AfterFunc(d, func() { c.onTimer(generation, stage) })
}

func (c *Controller) stopTimerLocked() {
	c.generation++
	c.deadline = time.Time{}
	if c.task != nil {
		c.task.Stop()
		c.task = nil
	}
}

func (c *Controller) resetLocked() {
	c.stopTimerLocked()
	c.machine = nil
}

func (c *Controller) finalizeLocked(ctx context.Context) (sessiondto.StateOutput, error) {
	final := c.stateLocked()
	goal := c.machine.Goal()
	defer c.resetLocked()

	record, err := c.machine.Record(c.svc.Now())
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	err = c.tx.Within(ctx, func(ctx context.Context) error {
		streak, err := c.svc.Complete(ctx, record)
		if err != nil {
			return err
		}
		if _, err := c.library.CompleteGoal(ctx, goal.ID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		c.log.Info("session completed", "goal_id", goal.ID, "streak", streak.Days)
		return nil
	})
	if err != nil {
		c.log.Error("session finalization failed", "goal_id", goal.ID, "error", err)
		return sessiondto.StateOutput{}, err
	}

	path, err := c.svc.WriteJournal(ctx, record, goal)
	if err != nil {
		c.log.Warn("session journal not written", "goal_id", goal.ID, "error", err)
	}
	final.Active = false
	final.Completed = true
	final.TimeRemaining = 0
	final.JournalPath = path
	return final, nil
}

func (c *Controller) stateLocked() sessiondto.StateOutput {
	if c.machine == nil {
		return sessiondto.StateOutput{}
	}
	goal := c.machine.Goal()
	draft := c.machine.Draft()
	return sessiondto.StateOutput{
		Active:         true,
		CurrentStage:   int(c.machine.Stage()),
		StageName:      c.machine.Stage().String(),
		TimeRemaining:  c.remainingLocked(),
		GoalID:         goal.ID,
		GoalText:       goal.Text,
		GoalLevel:      goal.Level,
		BookTitle:      goal.BookTitle,
		StartTime:      draft.StartTime,
		PendingInput:   c.machine.Pending(),
		UserPrediction: draft.UserPrediction,
		BrainDump:      draft.BrainDump,
		Prediction:     draft.Prediction,
		AIFeedback:     draft.AIFeedback,
		Gap:            draft.Gap,
	}
}

func (c *Controller) remainingLocked() int {
	if c.deadline.IsZero() {
		return 0
	}
	left := c.deadline.Sub(c.svc.Now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}
